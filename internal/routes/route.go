package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/container"
	"github.com/joshua-takyi/sportsmeet/internal/handlers"
	"github.com/joshua-takyi/sportsmeet/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Recovery(container.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": "sportsmeet-api",
		})
	})

	auth := middleware.AuthMiddleware(container.Auth, container.Logger)

	events := r.Group("/events")
	{
		// public routes
		events.GET("", handlers.ListEvents(container.EventService))
		events.GET("/locations/map", handlers.LocationsMap(container.EventService))

		protected := events.Group("", auth)
		protected.POST("", handlers.CreateEvent(container.EventService))
		protected.POST("/send-email", handlers.SendEmail(container.Mailer))
		protected.GET("/:id", handlers.GetEvent(container.EventService))
		protected.PUT("/:id", handlers.UpdateEvent(container.EventService))
		protected.DELETE("/:id", handlers.DeleteEvent(container.EventService))
		protected.POST("/:id/attend", handlers.AttendEvent(container.AttendanceService))
		protected.DELETE("/:id/attend", handlers.UnattendEvent(container.AttendanceService))
		protected.POST("/:id/comments", handlers.AddComment(container.CommentService))
	}

	return r
}
