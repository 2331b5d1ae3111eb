package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/userhub/user-directory-api/internal/constants"
	"github.com/userhub/user-directory-api/internal/validation"
)

// ListQuery holds the validated query parameters of the list endpoint.
type ListQuery struct {
	Search   string
	Page     int
	PageSize int
}

// ParseListQuery extracts search/page/limit from the request. Out-of-range
// values are reported as validation errors, never clamped.
func ParseListQuery(c *gin.Context) (ListQuery, []validation.FieldError) {
	var errs []validation.FieldError

	query := ListQuery{
		Search:   c.Query("search"),
		Page:     constants.MinPage,
		PageSize: constants.DefaultPageSize,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < constants.MinPage {
			errs = append(errs, validation.FieldError{
				Field:   "page",
				Message: "Page must be a positive integer",
			})
		} else {
			query.Page = page
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
			errs = append(errs, validation.FieldError{
				Field:   "limit",
				Message: "Limit must be between 1 and 100",
			})
		} else {
			query.PageSize = limit
		}
	}

	if len(query.Search) > constants.MaxSearchLength {
		errs = append(errs, validation.FieldError{
			Field:   "search",
			Message: "Search term cannot exceed 100 characters",
		})
	}

	return query, errs
}

// ParseID extracts a positive integer id from the route parameters.
func ParseID(c *gin.Context) (uint64, []validation.FieldError) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, []validation.FieldError{{
			Field:   "id",
			Message: "User ID must be a positive integer",
		}}
	}
	return id, nil
}
