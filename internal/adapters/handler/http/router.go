package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/venkatarun/hidden-habits/internal/adapters/handler/http/middleware"
	"github.com/venkatarun/hidden-habits/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler *AuthHandler
	SyncHandler *SyncHandler
	Sessions    *services.SessionService
	Redis       *redis.Client // nil when the file strategy is active
	Backend     string
	StartTime   time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.NoRoute(middleware.NotFound)

	router.GET("/health", func(c *gin.Context) {
		backendStatus := "ok"
		statusCode := 200
		if deps.Redis != nil && deps.Redis.Ping(c.Request.Context()).Err() != nil {
			backendStatus = "unreachable"
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"backend": deps.Backend,
			"storage": backendStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	deps.AuthHandler.RegisterRoutes(router.Group(""))

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(deps.Sessions))
	{
		deps.SyncHandler.RegisterRoutes(api)
	}

	return router
}
