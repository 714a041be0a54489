package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/barber"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Dependencies are built once in main and shared by every handler.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Identity identity.Provider
	Cache    cache.Cache
	// Store may be nil; photo uploads then answer 503.
	Store     storage.ObjectStore
	Audit     audit.Recorder
	AuditLogs *audit.Logger
	Notifier  ucAppointment.Notifier
	Clock     *timezone.Clock
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)

	var emailOK func(string) bool
	if cfg.VerifyEmailDomain {
		emailOK = validators.NewEmailDomains(3 * time.Second).Accepts
	}

	accounts := account.New(d.DB, d.Identity, d.Audit, emailOK)
	barbers := barber.New(d.DB, d.Identity, d.Store, d.Audit, d.Log)
	services := catalog.New(d.DB, d.Cache, cfg.CacheTTL, d.Audit, d.Log)

	deps := handlers.Deps{
		Audit:    d.Audit,
		Notifier: d.Notifier,
		Clock:    d.Clock,
		Log:      d.Log,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(accounts, d.Identity)
	meHandler := handlers.NewMeHandler(accounts)
	userHandler := handlers.NewUserHandler(accounts)
	barberHandler := handlers.NewBarberHandler(barbers)
	serviceHandler := handlers.NewServiceHandler(services)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, barbers, deps)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, barbers, deps)
	messageHandler := handlers.NewMessageHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogs)
	publicHandler := handlers.NewPublicHandler(d.DB, appointmentRepo)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	staff := middleware.RoleAuth(string(models.RoleBarber), string(models.RoleAdmin))
	admin := middleware.RoleAuth(string(models.RoleAdmin))

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/healthz", publicHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	api.Use(limiter.Middleware(d.Log))
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		public := api.Group("/", middleware.OptionalAuth(d.Identity))
		{
			public.GET("/barbers", barberHandler.List)
			public.GET("/barbers/:id", barberHandler.Get)
			public.GET("/barbers/:id/availability", publicHandler.Availability)

			public.GET("/services", serviceHandler.List)
			public.GET("/services/:id", serviceHandler.Get)

			public.GET("/schedules", scheduleHandler.List)
			public.GET("/schedules/:id", scheduleHandler.Get)
		}

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/", middleware.Auth(d.Identity))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			// users
			secured.GET("/users", staff, userHandler.List)
			secured.POST("/users", admin, userHandler.Create)
			secured.GET("/users/:id", userHandler.Get)
			secured.PATCH("/users/:id", admin, userHandler.Update)
			secured.DELETE("/users/:id", admin, userHandler.Delete)

			// barbers
			secured.POST("/barbers", admin, barberHandler.Create)
			secured.PATCH("/barbers/:id", staff, barberHandler.Update)
			secured.PUT("/barbers/:id/photo", staff, barberHandler.UploadPhoto)
			secured.DELETE("/barbers/:id", admin, barberHandler.Delete)

			// services
			secured.POST("/services", staff, serviceHandler.Create)
			secured.PATCH("/services/:id", staff, serviceHandler.Update)
			secured.DELETE("/services/:id", admin, serviceHandler.Delete)

			// schedules
			secured.POST("/schedules", staff, scheduleHandler.Create)
			secured.PATCH("/schedules/:id", staff, scheduleHandler.Update)
			secured.DELETE("/schedules/:id", staff, scheduleHandler.Delete)

			// appointments
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/upcoming", appointmentHandler.Upcoming)
			secured.GET("/appointments/past", appointmentHandler.Past)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", staff, appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", admin, appointmentHandler.Delete)

			// messages
			secured.POST("/messages", messageHandler.Create)
			secured.GET("/messages", messageHandler.List)
			secured.GET("/messages/:id", messageHandler.Get)
			secured.PATCH("/messages/:id/active", messageHandler.SetActive)
			secured.PATCH("/messages/:id/read", messageHandler.MarkRead)
			secured.DELETE("/messages/:id", messageHandler.Delete)

			secured.GET("/audit-logs", admin, auditLogsHandler.List)
		}
	}
}
