// Package client provides a typed API client for the user directory service
// and the Directory page-state orchestration used to drive it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/userhub/user-directory-api/internal/dto"
	"github.com/userhub/user-directory-api/internal/validation"
)

// Client talks to the user directory REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// UserFields is the editable field set sent on create and update.
type UserFields struct {
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`
}

// Validate runs the pre-flight check against the same rule table the server
// enforces, so client feedback and the authoritative gate cannot diverge.
func (f UserFields) Validate() []validation.FieldError {
	return validation.Validate(validation.Fields(f))
}

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []validation.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsConflict reports whether the server rejected a duplicate username/email.
func (e *APIError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

// IsValidation reports whether the server rejected the input fields.
func (e *APIError) IsValidation() bool { return e.StatusCode == http.StatusBadRequest }

type envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    json.RawMessage         `json:"data"`
	Errors  []validation.FieldError `json:"errors"`
}

// Health checks the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ListUsers fetches one page of users. Empty search matches everything.
func (c *Client) ListUsers(ctx context.Context, search string, page, limit int) (*dto.UserListDTO, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var list dto.UserListDTO
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetUser fetches a single user by ID.
func (c *Client) GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user and returns the canonical stored record.
func (c *Client) CreateUser(ctx context.Context, fields UserFields) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodPost, "/users", fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces the editable fields of an existing user.
func (c *Client) UpdateUser(ctx context.Context, id uint64, fields UserFields) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user permanently.
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// Stats fetches the aggregate user counts.
func (c *Client) Stats(ctx context.Context) (*dto.StatsDTO, error) {
	var stats dto.StatsDTO
	if err := c.do(ctx, http.MethodGet, "/users/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Fields:     env.Errors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	return nil
}
