package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/userhub/user-directory-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID.
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves one page of users matching the filter plus the total match
// count. The id tiebreaker keeps the order total, so concatenating pages
// yields every match exactly once.
func (r *GormUserRepository) List(filter ListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	var users []models.User
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// FindConflict finds a user other than excludeID holding the given username
// or email.
func (r *GormUserRepository) FindConflict(username, email string, excludeID uint64) (*models.User, error) {
	var user models.User
	query := r.db.Where("username = ? OR email = ?", username, email)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists all fields of an existing user. Save writes every column
// and refreshes updated_at.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user permanently.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Stats computes aggregate counts. Windows are trailing instants from now,
// evaluated fresh on every call.
func (r *GormUserRepository) Stats(now time.Time) (*Stats, error) {
	var stats Stats

	if err := r.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	weekAgo := now.AddDate(0, 0, -7)
	if err := r.db.Model(&models.User{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.NewUsersThisWeek).Error; err != nil {
		return nil, err
	}

	monthAgo := now.AddDate(0, 0, -30)
	if err := r.db.Model(&models.User{}).
		Where("created_at >= ?", monthAgo).
		Count(&stats.NewUsersThisMonth).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
