package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/userhub/user-directory-api/internal/config"
	"github.com/userhub/user-directory-api/internal/dto"
	"github.com/userhub/user-directory-api/internal/middleware"
	"github.com/userhub/user-directory-api/pkg/logger"
)

// NewRouter builds the gin engine with middleware, the API route group, and
// the service endpoints.
func NewRouter(cfg *config.Config, userHandler *UserHandler) *gin.Engine {
	r := gin.New()
	log := logger.Get()

	r.Use(middleware.Recovery(log, cfg.IsProduction()))
	r.Use(middleware.RequestLogger(log))

	// Service banner
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Response{
			Success: true,
			Message: "User Management API",
			Data: gin.H{
				"version": "1.0.0",
				"endpoints": gin.H{
					"health":    cfg.APIPrefix + "/health",
					"users":     cfg.APIPrefix + "/users",
					"userStats": cfg.APIPrefix + "/users/stats",
				},
			},
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.Response{
				Success: true,
				Message: "API is healthy",
				Data:    gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)},
			})
		})

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			// stats must be registered before /:id
			users.GET("/stats", userHandler.GetStats)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Response{
			Success: false,
			Message: fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		})
	})

	return r
}
