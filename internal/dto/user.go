package dto

import (
	"time"

	"github.com/userhub/user-directory-api/internal/models"
)

// UserDTO represents a user record at the API boundary. All fields are
// camelCase regardless of storage naming.
type UserDTO struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PaginationDTO carries list paging metadata.
type PaginationDTO struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalUsers      int64 `json:"totalUsers"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// UserListDTO is the data payload of the list endpoint.
type UserListDTO struct {
	Users      []UserDTO     `json:"users"`
	Pagination PaginationDTO `json:"pagination"`
}

// StatsDTO is the data payload of the stats endpoint.
type StatsDTO struct {
	TotalUsers        int64 `json:"totalUsers"`
	NewUsersThisWeek  int64 `json:"newUsersThisWeek"`
	NewUsersThisMonth int64 `json:"newUsersThisMonth"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Location:    user.Location,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// ToUserListDTO converts a page of users plus the total match count into the
// list payload. totalPages is ceil(total/pageSize).
func ToUserListDTO(users []models.User, page, pageSize int, total int64) UserListDTO {
	items := make([]UserDTO, len(users))
	for i, u := range users {
		items[i] = ToUserDTO(u)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return UserListDTO{
		Users: items,
		Pagination: PaginationDTO{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalUsers:      total,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}
