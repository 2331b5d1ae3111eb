package repository

import (
	"time"

	"github.com/userhub/user-directory-api/internal/models"
)

// ListFilter holds filtering and paging options for listing users.
type ListFilter struct {
	// Search is an optional case-insensitive substring matched against
	// username, full name, email and location (OR across the four).
	Search   string
	Page     int
	PageSize int
}

// Stats holds the aggregate counts over the users table.
type Stats struct {
	TotalUsers        int64
	NewUsersThisWeek  int64
	NewUsersThisMonth int64
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user.
	Create(user *models.User) error

	// FindByID finds a user by ID.
	FindByID(id uint64) (*models.User, error)

	// List retrieves one page of users matching the filter plus the total
	// match count. Ordering is newest-first by creation time.
	List(filter ListFilter) ([]models.User, int64, error)

	// FindConflict finds a user other than excludeID holding the given
	// username or email. excludeID 0 excludes nothing.
	FindConflict(username, email string, excludeID uint64) (*models.User, error)

	// Update persists all fields of an existing user.
	Update(user *models.User) error

	// Delete removes a user permanently.
	Delete(id uint64) error

	// Stats computes aggregate counts with the 7- and 30-day windows
	// anchored at now.
	Stats(now time.Time) (*Stats, error)
}
