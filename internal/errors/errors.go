// Package errors provides envelope-shaped error responses for the API.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userhub/user-directory-api/internal/dto"
	"github.com/userhub/user-directory-api/internal/validation"
)

// RespondWithError sends an error envelope with the given status.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.Response{Success: false, Message: message})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, message)
}

// ValidationFailed sends a 400 response carrying the full per-field error
// list, never just the first failure.
func ValidationFailed(c *gin.Context, errs []validation.FieldError) {
	c.JSON(http.StatusBadRequest, dto.Response{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, message)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, message)
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, message)
}
