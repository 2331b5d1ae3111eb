package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/users?"+rawQuery, nil)
	return c
}

func TestParseListQuery_Defaults(t *testing.T) {
	query, errs := ParseListQuery(listContext(t, ""))
	assert.Empty(t, errs)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 10, query.PageSize)
	assert.Empty(t, query.Search)
}

func TestParseListQuery_Valid(t *testing.T) {
	query, errs := ParseListQuery(listContext(t, "search=ny&page=3&limit=25"))
	assert.Empty(t, errs)
	assert.Equal(t, "ny", query.Search)
	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 25, query.PageSize)
}

func TestParseListQuery_OutOfRangeIsErrorNotClamp(t *testing.T) {
	tests := []struct {
		raw   string
		field string
	}{
		{"page=0", "page"},
		{"page=-1", "page"},
		{"page=abc", "page"},
		{"limit=0", "limit"},
		{"limit=101", "limit"},
		{"limit=abc", "limit"},
		{"search=" + strings.Repeat("a", 101), "search"},
	}
	for _, tt := range tests {
		_, errs := ParseListQuery(listContext(t, tt.raw))
		require.Len(t, errs, 1, tt.raw)
		assert.Equal(t, tt.field, errs[0].Field, tt.raw)
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, errs := ParseID(c)
	assert.Empty(t, errs)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"abc", "0", "-5", "1.5"} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, errs := ParseID(c)
		require.Len(t, errs, 1, raw)
		assert.Equal(t, "id", errs[0].Field)
	}
}
