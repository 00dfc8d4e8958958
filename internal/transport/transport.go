package transport

import (
	"time"

	"github.com/ahmedsomaa/picloom/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	MaxBodyBytes int64
	Timeout      time.Duration
}

func InitRoutes(resizeHandler *ResizeHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if cfg.Timeout > 0 {
		router.Use(middleware.Timeout(cfg.Timeout))
	}

	api := router.Group("/api")
	api.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	resizeHandler.RegisterRoutes(api)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "picloom",
		})
	})
	return router
}
