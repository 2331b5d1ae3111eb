package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userhub/user-directory-api/internal/dto"
	apierrors "github.com/userhub/user-directory-api/internal/errors"
	"github.com/userhub/user-directory-api/internal/metrics"
	"github.com/userhub/user-directory-api/internal/services"
	"github.com/userhub/user-directory-api/internal/utils"
	"github.com/userhub/user-directory-api/pkg/logger"
)

// UserHandler coordinates the user CRUD endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRequest is the JSON body of create and update calls.
type UserRequest struct {
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`
}

func (r UserRequest) toInput() services.UserInput {
	return services.UserInput{
		Username:    r.Username,
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Location:    r.Location,
	}
}

// ListUsers returns one page of users with optional search.
func (h *UserHandler) ListUsers(c *gin.Context) {
	query, errs := utils.ParseListQuery(c)
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, errs)
		return
	}

	users, total, err := h.userService.ListUsers(services.ListUsersInput{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		h.respondError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserListDTO(users, query.Page, query.PageSize, total)))
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, errs := utils.ParseID(c)
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, errs)
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		h.respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserDTO(*user)))
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(req.toInput())
	if err != nil {
		h.respondError(c, err, "Failed to create user")
		return
	}

	metrics.UsersCreatedTotal.Inc()
	c.JSON(http.StatusCreated, dto.OKWithMessage("User created successfully", dto.ToUserDTO(*user)))
}

// UpdateUser replaces the editable fields of an existing user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, errs := utils.ParseID(c)
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, errs)
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, req.toInput())
	if err != nil {
		h.respondError(c, err, "Failed to update user")
		return
	}

	metrics.UsersUpdatedTotal.Inc()
	c.JSON(http.StatusOK, dto.OKWithMessage("User updated successfully", dto.ToUserDTO(*user)))
}

// DeleteUser removes a user permanently.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, errs := utils.ParseID(c)
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, errs)
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		h.respondError(c, err, "Failed to delete user")
		return
	}

	metrics.UsersDeletedTotal.Inc()
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "User deleted successfully"})
}

// GetStats returns aggregate user counts.
func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.userService.Stats()
	if err != nil {
		h.respondError(c, err, "Failed to fetch user statistics")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.StatsDTO{
		TotalUsers:        stats.TotalUsers,
		NewUsersThisWeek:  stats.NewUsersThisWeek,
		NewUsersThisMonth: stats.NewUsersThisMonth,
	}))
}

// respondError maps service errors to envelope responses. Unknown errors are
// logged with their cause and reported with the generic fallback message.
func (h *UserHandler) respondError(c *gin.Context, err error, fallback string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		apierrors.ValidationFailed(c, vErr.Fields)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUserConflict):
		metrics.ConflictsTotal.Inc()
		apierrors.Conflict(c, "Username or email already exists")
	default:
		log := logger.Get()
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		apierrors.InternalError(c, fallback)
	}
}
