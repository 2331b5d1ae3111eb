package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/userhub/user-directory-api/internal/models"
	"github.com/userhub/user-directory-api/internal/repository"
	"github.com/userhub/user-directory-api/internal/validation"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("username or email already exists")
)

// ValidationError carries the full list of failed fields so handlers can
// report every failure, not just the first.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// UserService handles user business logic: validation, email normalization,
// uniqueness conflicts, and the CRUD operations themselves.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents parameters for listing users. Page and PageSize
// are assumed validated by the caller.
type ListUsersInput struct {
	Search   string
	Page     int
	PageSize int
}

// UserInput represents the editable fields of a user for create and update.
type UserInput struct {
	Username    string
	FullName    string
	Email       string
	PhoneNumber string
	Location    string
}

// ListUsers returns one page of users matching the search term plus the total
// match count.
func (s *UserService) ListUsers(input ListUsersInput) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(repository.ListFilter{
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser validates the input, normalizes the email, checks for username
// and email conflicts, and inserts the record. No write happens on any
// failure path.
func (s *UserService) CreateUser(input UserInput) (*models.User, error) {
	if errs := validation.Validate(validation.Fields(input)); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	email := validation.NormalizeEmail(input.Email)

	if err := s.checkConflict(input.Username, email, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    input.Username,
		FullName:    input.FullName,
		Email:       email,
		PhoneNumber: input.PhoneNumber,
		Location:    input.Location,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The pre-check raced a concurrent write; the unique index is the
		// final authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser replaces all editable fields of an existing record. The conflict
// check excludes the record itself, so resubmitting unchanged values
// succeeds. ID and creation time are never touched.
func (s *UserService) UpdateUser(id uint64, input UserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if errs := validation.Validate(validation.Fields(input)); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	email := validation.NormalizeEmail(input.Email)

	if err := s.checkConflict(input.Username, email, id); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.FullName = input.FullName
	user.Email = email
	user.PhoneNumber = input.PhoneNumber
	user.Location = input.Location

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user permanently. Deleting a nonexistent ID is an
// error, not a silent success.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// Stats returns aggregate counts with the trailing windows anchored at the
// current clock.
func (s *UserService) Stats() (*repository.Stats, error) {
	stats, err := s.userRepo.Stats(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// checkConflict reports ErrUserConflict when another record already holds the
// username (case-sensitive) or the normalized email.
func (s *UserService) checkConflict(username, email string, excludeID uint64) error {
	_, err := s.userRepo.FindConflict(username, email, excludeID)
	if err == nil {
		return ErrUserConflict
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check user conflicts: %w", err)
}
