package models

import (
	"time"
)

// User is the single directory entity. Usernames and emails are unique across
// the whole table; the unique indexes are the final authority when two
// concurrent writes race past the application-level conflict pre-check.
// Deletes are hard deletes, so there is no soft-delete column.
type User struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Username    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	FullName    string    `gorm:"type:varchar(100);not null" json:"fullName"`
	Email       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phoneNumber"`
	Location    string    `gorm:"type:varchar(100);not null" json:"location"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
