package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/cache"
	"clinic-api-server/internal/config"
	"clinic-api-server/internal/handlers"
	"clinic-api-server/internal/middleware"
	"clinic-api-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, c *cache.Cache, cfg *config.Config, log zerolog.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, c, log)
	userHandler := handlers.NewUserHandler(db, log)
	patientHandler := handlers.NewPatientHandler(db, log)
	doctorHandler := handlers.NewDoctorHandler(db, log)
	appointmentHandler := handlers.NewAppointmentHandler(db, c, log)
	clerkHandler := handlers.NewClerkHandler(db, c, log)

	router.GET("/health", authHandler.Health)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/me", userHandler.GetMyProfile)
			userRoutes.PUT("/me", userHandler.UpdateMyProfile)
			userRoutes.PUT("/me/password", userHandler.UpdateMyPassword)

			clerkOnly := userRoutes.Group("")
			clerkOnly.Use(middleware.RoleAuthMiddleware(models.RoleClerk))
			{
				clerkOnly.GET("/pending", userHandler.GetPendingUsers)
				clerkOnly.POST("/:id/approve", userHandler.ApproveUser)
				clerkOnly.POST("/:id/reject", userHandler.RejectUser)
			}
		}

		patientRoutes := private.Group("/patients")
		{
			staff := middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleClerk)

			patientRoutes.GET("", staff, patientHandler.GetPatients)
			patientRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleClerk), patientHandler.CreatePatient)

			// Ownership checks for the patient role live in the handler.
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.GET("/:id/medical-history", patientHandler.GetMedicalHistory)

			patientRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleClerk), patientHandler.DeactivatePatient)

			// Clinical notes are never exposed to the patient.
			patientRoutes.GET("/:id/notes", staff, patientHandler.GetPatientNotes)
			patientRoutes.PUT("/:id/notes", staff, patientHandler.UpdatePatientNotes)
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctor)

			clerkOnly := doctorRoutes.Group("")
			clerkOnly.Use(middleware.RoleAuthMiddleware(models.RoleClerk))
			{
				clerkOnly.POST("", doctorHandler.CreateDoctor)
				clerkOnly.PUT("/:id", doctorHandler.UpdateDoctor)
			}
		}

		appointmentRoutes := private.Group("/appointments")
		{
			// Role-scoped visibility and ownership checks live in the
			// handlers; the middleware gates the verbs by role.
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointment)

			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleClerk), appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PUT("/:id/status", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleClerk), appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PUT("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.CompleteAppointment)
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleClerk), appointmentHandler.CancelAppointment)
		}

		clerkRoutes := private.Group("/clerk")
		clerkRoutes.Use(middleware.RoleAuthMiddleware(models.RoleClerk))
		{
			clerkRoutes.GET("/dashboard", clerkHandler.GetDashboard)
		}
	}
}
