package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/config"
	"github.com/ArowuTest/church-calendar-backend/internal/handlers"
	"github.com/ArowuTest/church-calendar-backend/internal/middleware"
	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries everything the router needs
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	ChurchHandler   *handlers.ChurchHandler
	EventHandler    *handlers.EventHandler
	CalendarHandler *handlers.CalendarHandler
	MediaHandler    *handlers.MediaHandler
	Tokens          *jwt.TokenService
	// Ping reports storage health; nil means always healthy
	Ping func(ctx context.Context) error
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			if deps.Ping != nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				if err := deps.Ping(ctx); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Calendar feeds are subscribed to by calendar apps without a token
		public.GET("/churches/:id/calendar.ics", deps.CalendarHandler.Feed)
		public.GET("/media/*path", deps.MediaHandler.Get)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		churches := protected.Group("/churches")
		{
			churches.GET("", deps.ChurchHandler.ListMine)
			churches.POST("", deps.ChurchHandler.Create)
			churches.PUT("/:id/members", deps.ChurchHandler.SetMemberRole)
			churches.GET("/:id/events", deps.EventHandler.ListByChurch)
			churches.GET("/:id/calendar", deps.CalendarHandler.Month)
		}

		events := protected.Group("/events")
		{
			events.POST("", deps.EventHandler.Create)
			events.POST("/image", deps.EventHandler.UploadImage)
			events.GET("/:id", deps.EventHandler.Get)
			events.PUT("/:id", deps.EventHandler.Update)
			events.DELETE("/:id", deps.EventHandler.Delete)
		}
	}

	return router
}
