package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/userhub/user-directory-api/internal/config"
	"github.com/userhub/user-directory-api/internal/dto"
	"github.com/userhub/user-directory-api/internal/models"
	"github.com/userhub/user-directory-api/internal/repository"
	"github.com/userhub/user-directory-api/internal/services"
	"github.com/userhub/user-directory-api/internal/validation"
)

// apiResponse mirrors the response envelope with a raw data payload.
type apiResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    json.RawMessage         `json:"data"`
	Errors  []validation.FieldError `json:"errors"`
}

type UserHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *UserHandlerTestSuite) SetupTest() {
	var err error

	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(&models.User{})
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(s.db)
	userService := services.NewUserService(userRepo)
	userHandler := NewUserHandler(userService)

	gin.SetMode(gin.TestMode)
	s.router = NewRouter(&config.Config{Env: "test", APIPrefix: "/api/v1"}, userHandler)
}

func (s *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *UserHandlerTestSuite) request(method, url string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (s *UserHandlerTestSuite) userBody(username, email string) map[string]string {
	return map[string]string{
		"username":    username,
		"fullName":    "John Doe",
		"email":       email,
		"phoneNumber": "+15550123",
		"location":    "NY",
	}
}

func (s *UserHandlerTestSuite) createUser(username, email string) dto.UserDTO {
	w, resp := s.request(http.MethodPost, "/api/v1/users", s.userBody(username, email))
	s.Require().Equal(http.StatusCreated, w.Code)

	var user dto.UserDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &user))
	return user
}

// seedUser inserts directly with a controlled creation time.
func (s *UserHandlerTestSuite) seedUser(username string, createdAt time.Time) *models.User {
	user := &models.User{
		Username:    username,
		FullName:    "Seed User",
		Email:       username + "@example.com",
		PhoneNumber: "+15550100",
		Location:    "Springfield",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *UserHandlerTestSuite) TestHealth() {
	w, resp := s.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "API is healthy", resp.Message)
}

func (s *UserHandlerTestSuite) TestCreateUser_NormalizesEmail() {
	w, resp := s.request(http.MethodPost, "/api/v1/users", s.userBody("john_doe", "JOHN@EX.com"))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "User created successfully", resp.Message)

	var user dto.UserDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &user))
	assert.Equal(s.T(), "john@ex.com", user.Email)
	assert.NotZero(s.T(), user.ID)
	assert.False(s.T(), user.CreatedAt.IsZero())
	assert.False(s.T(), user.UpdatedAt.Before(user.CreatedAt))
}

func (s *UserHandlerTestSuite) TestCreateUser_DuplicateUsername() {
	s.createUser("john_doe", "john@ex.com")

	w, resp := s.request(http.MethodPost, "/api/v1/users", s.userBody("john_doe", "other@ex.com"))

	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.False(s.T(), resp.Success)
	assert.Equal(s.T(), "Username or email already exists", resp.Message)

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *UserHandlerTestSuite) TestCreateUser_DuplicateEmailCaseInsensitive() {
	s.createUser("john_doe", "john@ex.com")

	w, _ := s.request(http.MethodPost, "/api/v1/users", s.userBody("jane_doe", "JOHN@EX.COM"))
	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *UserHandlerTestSuite) TestCreateUser_ValidationErrors() {
	body := map[string]string{"username": "x", "fullName": "", "email": "bad", "phoneNumber": "0", "location": "A"}
	w, resp := s.request(http.MethodPost, "/api/v1/users", body)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "Validation failed", resp.Message)
	// Every failed field is reported, not just the first.
	assert.Len(s.T(), resp.Errors, 5)

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *UserHandlerTestSuite) TestCreateUser_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *UserHandlerTestSuite) TestListUsers_SearchMatchesLocation() {
	s.createUser("john_doe", "john@ex.com")

	w, resp := s.request(http.MethodGet, "/api/v1/users?search=ny&page=1&limit=10", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var list dto.UserListDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &list))
	s.Require().Len(list.Users, 1)
	assert.Equal(s.T(), "john_doe", list.Users[0].Username)
	assert.EqualValues(s.T(), 1, list.Pagination.TotalUsers)
}

func (s *UserHandlerTestSuite) TestListUsers_NewestFirst() {
	base := time.Now().Add(-time.Hour)
	s.seedUser("older", base)
	s.seedUser("newer", base.Add(time.Minute))

	_, resp := s.request(http.MethodGet, "/api/v1/users", nil)

	var list dto.UserListDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &list))
	s.Require().Len(list.Users, 2)
	assert.Equal(s.T(), "newer", list.Users[0].Username)
	assert.Equal(s.T(), "older", list.Users[1].Username)
}

func (s *UserHandlerTestSuite) TestListUsers_PaginationComplete() {
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		s.seedUser(fmt.Sprintf("user_%d", i), base.Add(time.Duration(i)*time.Second))
	}

	seen := make(map[uint64]int)
	page := 1
	for {
		_, resp := s.request(http.MethodGet, fmt.Sprintf("/api/v1/users?page=%d&limit=3", page), nil)

		var list dto.UserListDTO
		s.Require().NoError(json.Unmarshal(resp.Data, &list))
		for _, u := range list.Users {
			seen[u.ID]++
		}

		assert.Equal(s.T(), page, list.Pagination.CurrentPage)
		assert.Equal(s.T(), 3, list.Pagination.TotalPages)
		assert.Equal(s.T(), page > 1, list.Pagination.HasPreviousPage)
		if !list.Pagination.HasNextPage {
			break
		}
		page++
	}

	assert.Len(s.T(), seen, 7)
	for id, n := range seen {
		assert.Equal(s.T(), 1, n, "user %d repeated across pages", id)
	}
}

func (s *UserHandlerTestSuite) TestListUsers_InvalidPagination() {
	for _, url := range []string{
		"/api/v1/users?page=0",
		"/api/v1/users?page=abc",
		"/api/v1/users?limit=0",
		"/api/v1/users?limit=101",
	} {
		w, resp := s.request(http.MethodGet, url, nil)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, url)
		assert.NotEmpty(s.T(), resp.Errors, url)
	}
}

func (s *UserHandlerTestSuite) TestGetUser() {
	created := s.createUser("john_doe", "john@ex.com")

	w, resp := s.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.ID), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var user dto.UserDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &user))
	assert.Equal(s.T(), created.ID, user.ID)
	assert.Equal(s.T(), created.Username, user.Username)
	assert.Equal(s.T(), created.Email, user.Email)
}

func (s *UserHandlerTestSuite) TestGetUser_NotFound() {
	w, resp := s.request(http.MethodGet, "/api/v1/users/999", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	assert.Equal(s.T(), "User not found", resp.Message)
}

func (s *UserHandlerTestSuite) TestGetUser_InvalidID() {
	w, resp := s.request(http.MethodGet, "/api/v1/users/abc", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	s.Require().Len(resp.Errors, 1)
	assert.Equal(s.T(), "id", resp.Errors[0].Field)
	assert.Equal(s.T(), "User ID must be a positive integer", resp.Errors[0].Message)
}

func (s *UserHandlerTestSuite) TestUpdateUser() {
	created := s.createUser("john_doe", "john@ex.com")

	body := s.userBody("john_doe", "john@ex.com")
	body["location"] = "Boston"
	w, resp := s.request(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", created.ID), body)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "User updated successfully", resp.Message)

	var user dto.UserDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &user))
	assert.Equal(s.T(), "Boston", user.Location)
	assert.Equal(s.T(), created.ID, user.ID)
	assert.Equal(s.T(), created.CreatedAt.Unix(), user.CreatedAt.Unix())
}

func (s *UserHandlerTestSuite) TestUpdateUser_NoOpResubmission() {
	created := s.createUser("john_doe", "john@ex.com")

	// Resubmitting the record's own username/email must not be a conflict.
	w, _ := s.request(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", created.ID), s.userBody("john_doe", "john@ex.com"))
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *UserHandlerTestSuite) TestUpdateUser_ConflictWithOtherRecord() {
	s.createUser("john_doe", "john@ex.com")
	other := s.createUser("jane_doe", "jane@ex.com")

	w, _ := s.request(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", other.ID), s.userBody("john_doe", "jane@ex.com"))
	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *UserHandlerTestSuite) TestUpdateUser_ValidationLeavesRecordUnchanged() {
	created := s.createUser("john_doe", "john@ex.com")

	body := s.userBody("x", "john@ex.com")
	w, resp := s.request(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", created.ID), body)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	s.Require().Len(resp.Errors, 1)
	assert.Equal(s.T(), "username", resp.Errors[0].Field)
	assert.Equal(s.T(), "Username must be between 3 and 50 characters", resp.Errors[0].Message)

	var stored models.User
	s.Require().NoError(s.db.First(&stored, created.ID).Error)
	assert.Equal(s.T(), "john_doe", stored.Username)
}

func (s *UserHandlerTestSuite) TestUpdateUser_NotFound() {
	w, _ := s.request(http.MethodPut, "/api/v1/users/999", s.userBody("john_doe", "john@ex.com"))
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *UserHandlerTestSuite) TestDeleteUser() {
	created := s.createUser("john_doe", "john@ex.com")

	w, resp := s.request(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", created.ID), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "User deleted successfully", resp.Message)

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *UserHandlerTestSuite) TestDeleteUser_NotFound() {
	w, resp := s.request(http.MethodDelete, "/api/v1/users/999", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	assert.Equal(s.T(), "User not found", resp.Message)
}

func (s *UserHandlerTestSuite) TestStats() {
	s.createUser("john_doe", "john@ex.com")
	s.seedUser("old_timer", time.Now().AddDate(0, 0, -40))

	w, resp := s.request(http.MethodGet, "/api/v1/users/stats", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var stats dto.StatsDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &stats))
	assert.EqualValues(s.T(), 2, stats.TotalUsers)
	assert.EqualValues(s.T(), 1, stats.NewUsersThisWeek)
	assert.EqualValues(s.T(), 1, stats.NewUsersThisMonth)
}

func (s *UserHandlerTestSuite) TestUnmatchedRoute() {
	w, resp := s.request(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	assert.False(s.T(), resp.Success)
	assert.Equal(s.T(), "Route /api/v1/nope not found", resp.Message)
}

func (s *UserHandlerTestSuite) TestRoundTrip() {
	created := s.createUser("john_doe", "john@ex.com")

	_, resp := s.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.ID), nil)

	var fetched dto.UserDTO
	s.Require().NoError(json.Unmarshal(resp.Data, &fetched))
	assert.Equal(s.T(), created.ID, fetched.ID)
	assert.Equal(s.T(), created.Username, fetched.Username)
	assert.Equal(s.T(), created.FullName, fetched.FullName)
	assert.Equal(s.T(), created.Email, fetched.Email)
	assert.Equal(s.T(), created.PhoneNumber, fetched.PhoneNumber)
	assert.Equal(s.T(), created.Location, fetched.Location)
	assert.Equal(s.T(), created.CreatedAt.Unix(), fetched.CreatedAt.Unix())
	assert.Equal(s.T(), created.UpdatedAt.Unix(), fetched.UpdatedAt.Unix())
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
