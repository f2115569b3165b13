package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/handler"
	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/service"
	"github.com/healthmate/healthmate-api/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	Logger      *zap.Logger

	// AI answers chatbot questions. Nil means the assistant is not configured.
	AI service.AdviceClient
	// Files stores uploads and exports. Nil disables uploads and streams exports.
	Files domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Repositories
	cache := repository.NewRedisCacheRepository(deps.RedisClient)
	userRepo := repository.NewCachedUserRepository(repository.NewMongoUserRepository(deps.MongoDB), cache)
	refreshRepo := repository.NewMongoRefreshTokenRepository(deps.MongoDB)
	recordRepo := repository.NewMongoHealthRecordRepository(deps.MongoDB)
	chatRepo := repository.NewMongoChatHistoryRepository(deps.MongoDB)
	reminderRepo := repository.NewMongoReminderRepository(deps.MongoDB)
	goalRepo := repository.NewMongoHealthGoalRepository(deps.MongoDB)
	waterRepo := repository.NewMongoWaterIntakeRepository(deps.MongoDB)
	exerciseRepo := repository.NewMongoExerciseLogRepository(deps.MongoDB)
	sleepRepo := repository.NewMongoSleepLogRepository(deps.MongoDB)
	doctorRepo := repository.NewMongoDoctorRepository(deps.MongoDB)
	appointmentRepo := repository.NewMongoAppointmentRepository(deps.MongoDB)

	metrics, err := telemetry.NewAnalysisMetrics()
	if err != nil {
		logger.Warn("analysis metrics disabled", zap.Error(err))
		metrics = nil
	}

	// Services
	tokenService := service.NewTokenService(cfg.JWT, refreshRepo, userRepo, cache)
	authService := service.NewAuthService(userRepo, tokenService, logger)
	userService := service.NewUserService(userRepo, tokenService)
	recordService := service.NewHealthRecordService(recordRepo, metrics)
	chatbotService := service.NewChatbotService(chatRepo, userRepo, recordRepo, deps.AI, int(cfg.AI.RatePerMinute), logger)
	reminderService := service.NewReminderService(reminderRepo)
	goalService := service.NewHealthGoalService(goalRepo)
	waterService := service.NewWaterIntakeService(waterRepo)
	exerciseService := service.NewExerciseLogService(exerciseRepo)
	sleepService := service.NewSleepTrackerService(sleepRepo)
	doctorService := service.NewDoctorService(doctorRepo, deps.Files)
	appointmentService := service.NewAppointmentService(appointmentRepo, doctorRepo)
	reportService := service.NewReportService(service.ReportRepositories{
		Users:     userRepo,
		Records:   recordRepo,
		Chats:     chatRepo,
		Reminders: reminderRepo,
		Goals:     goalRepo,
		Water:     waterRepo,
		Exercise:  exerciseRepo,
		Sleep:     sleepRepo,
	})
	exportService := service.NewExportService(reportService, deps.Files, logger)
	searchService := service.NewSearchService(chatRepo, recordRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.RefreshTokenExpiry)
	userHandler := handler.NewUserHandler(userService)
	recordHandler := handler.NewHealthRecordHandler(recordService)
	chatbotHandler := handler.NewChatbotHandler(chatbotService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	goalHandler := handler.NewGoalHandler(goalService)
	waterHandler := handler.NewWaterHandler(waterService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService)
	sleepHandler := handler.NewSleepHandler(sleepService)
	doctorHandler := handler.NewDoctorHandler(doctorService, cfg.Server.MaxBodySizeMB)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	reportHandler := handler.NewReportHandler(reportService, exportService)
	searchHandler := handler.NewSearchHandler(searchService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HealthMate API",
		BodyLimit:    int(cfg.Server.MaxBodySizeMB * 1024 * 1024),
		ErrorHandler: newErrorHandler(logger),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())
	app.Use(middleware.RequestLogger(logger))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "healthmate-api",
			"timestamp": time.Now().UTC(),
		})
	})

	api := app.Group("/api")
	requireAuth := middleware.VerifyToken(tokenService)
	adminOnly := middleware.AuthorizeRole(domain.RoleAdmin)
	idempotent := middleware.IdempotencyMiddleware(cache, idempotencyTTL, logger)

	// Auth endpoints
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/logout", requireAuth, authHandler.Logout)

	// Public doctor directory
	api.Get("/doctors/available", doctorHandler.ListAvailable)

	// ===========================================
	// Authenticated API
	// ===========================================
	private := api.Group("", requireAuth, idempotent)

	users := private.Group("/users")
	users.Put("/profile", userHandler.UpdateProfile)
	users.Put("/change-password", userHandler.ChangePassword)
	users.Get("/", adminOnly, userHandler.List)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	records := private.Group("/health-records")
	records.Post("/", recordHandler.Create)
	records.Get("/", recordHandler.List)
	records.Get("/latest", recordHandler.Latest)
	records.Get("/:id", recordHandler.Get)
	records.Put("/:id", recordHandler.Update)
	records.Delete("/:id", recordHandler.Delete)

	chatbot := private.Group("/chatbot")
	chatbot.Post("/ask", chatbotHandler.Ask)
	chatbot.Get("/history", chatbotHandler.History)
	chatbot.Delete("/history/clear", chatbotHandler.ClearHistory)
	chatbot.Put("/:id/rate", chatbotHandler.Rate)
	chatbot.Delete("/:id", chatbotHandler.Delete)

	reminders := private.Group("/reminders")
	reminders.Post("/", reminderHandler.Create)
	reminders.Get("/", reminderHandler.List)
	reminders.Get("/due", reminderHandler.Due)
	reminders.Get("/:id", reminderHandler.Get)
	reminders.Put("/:id", reminderHandler.Update)
	reminders.Put("/:id/toggle", reminderHandler.Toggle)
	reminders.Delete("/:id", reminderHandler.Delete)

	goals := private.Group("/health-goals")
	goals.Post("/", goalHandler.Create)
	goals.Get("/", goalHandler.List)
	goals.Get("/:id", goalHandler.Get)
	goals.Put("/:id", goalHandler.Update)
	goals.Put("/:id/progress", goalHandler.UpdateProgress)
	goals.Delete("/:id", goalHandler.Delete)

	water := private.Group("/water-intake")
	water.Post("/", waterHandler.Create)
	water.Get("/", waterHandler.List)
	water.Get("/daily", waterHandler.Daily)
	water.Get("/statistics", waterHandler.Statistics)
	water.Delete("/:id", waterHandler.Delete)

	exercise := private.Group("/exercise-logs")
	exercise.Post("/", exerciseHandler.Create)
	exercise.Get("/", exerciseHandler.List)
	exercise.Get("/statistics", exerciseHandler.Statistics)
	exercise.Get("/:id", exerciseHandler.Get)
	exercise.Put("/:id", exerciseHandler.Update)
	exercise.Delete("/:id", exerciseHandler.Delete)

	sleep := private.Group("/sleep-tracker")
	sleep.Post("/", sleepHandler.Create)
	sleep.Get("/", sleepHandler.List)
	sleep.Get("/statistics", sleepHandler.Statistics)
	sleep.Get("/:id", sleepHandler.Get)
	sleep.Put("/:id", sleepHandler.Update)
	sleep.Delete("/:id", sleepHandler.Delete)

	doctors := private.Group("/doctors", adminOnly)
	doctors.Post("/", doctorHandler.Create)
	doctors.Get("/", doctorHandler.List)
	doctors.Get("/:id", doctorHandler.Get)
	doctors.Put("/:id", doctorHandler.Update)
	doctors.Delete("/:id", doctorHandler.Delete)
	doctors.Post("/:id/image", doctorHandler.UploadImage)

	appointments := private.Group("/appointments")
	appointments.Post("/", appointmentHandler.Book)
	appointments.Get("/my-appointments", appointmentHandler.ListMine)
	appointments.Get("/my-appointments/:id", appointmentHandler.GetMine)
	appointments.Put("/my-appointments/:id/cancel", appointmentHandler.Cancel)
	appointments.Get("/", adminOnly, appointmentHandler.List)
	appointments.Get("/:id", adminOnly, appointmentHandler.Get)
	appointments.Put("/:id/status", adminOnly, appointmentHandler.UpdateStatus)

	reports := private.Group("/reports")
	reports.Get("/health", reportHandler.Health)
	reports.Get("/health/export", reportHandler.ExportHealth)
	reports.Get("/chatbot", reportHandler.Chatbot)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/admin/stats", adminOnly, reportHandler.AdminStats)

	search := private.Group("/search")
	search.Get("/", searchHandler.Search)
	search.Get("/chats", searchHandler.SearchChats)

	return app
}

// newErrorHandler renders errors that reach the app as the standard error
// envelope. Unexpected errors are logged and their detail is withheld.
func newErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled request error",
				zap.String("method", utils.CopyString(c.Method())),
				zap.String("path", utils.CopyString(c.Path())),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
		}
		if code == fiber.StatusNotFound && strings.HasPrefix(message, "Cannot ") {
			message = "Route not found"
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
