package routes

import (
	"telemedicine-reminder-server/internal/config"
	"telemedicine-reminder-server/internal/handlers"
	"telemedicine-reminder-server/internal/middleware"
	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/reminder"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, dispatcher *reminder.Dispatcher, cfg *config.Config) {
	// Initialize handlers
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)
	dispatchHandler := handlers.NewDispatchHandler(dispatcher)

	// Job endpoints: triggered by external schedulers, no user auth. Any
	// method is accepted; preflight OPTIONS is handled by the CORS
	// middleware.
	jobs := router.Group("/api/v1/jobs")
	{
		jobs.Any("/dispatch-reminders", dispatchHandler.TriggerDispatch)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		userRoutes := private.Group("/users")
		{
			// Doctor directory, used by the booking flow
			userRoutes.GET("/doctors", userHandler.GetDoctors)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Booking also seeds the appointment's reminder rows
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor, models.RoleAdmin), appointmentHandler.CreateAppointment)

			// All authenticated users can get their own appointments
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			// Specific appointment access (authorization inside handler)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		}

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetNotificationsForUser)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
