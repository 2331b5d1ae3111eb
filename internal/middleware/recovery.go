package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/userhub/user-directory-api/internal/dto"
)

// Recovery converts panics into a 500 envelope. The stack is included in the
// body only outside production.
func Recovery(log zerolog.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		stack := string(debug.Stack())

		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("stack", stack).
			Msg("panic recovered")

		resp := dto.Response{
			Success: false,
			Message: "Internal Server Error",
		}
		if !production {
			resp.Stack = stack
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}
