package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"projectpulse/internal/config"
	"projectpulse/internal/handlers"
	"projectpulse/internal/jobs"
	"projectpulse/internal/logging"
	"projectpulse/internal/middleware"
	"projectpulse/internal/services"
	"projectpulse/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting ProjectPulse Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Storage: %s)", cfg.Port, cfg.StorageDriver)

	// Initialize storage
	var store storage.Store
	switch cfg.StorageDriver {
	case "sqlite":
		sqliteStore, err := storage.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("❌ Failed to open SQLite store: %v", err)
		}
		store = sqliteStore
		log.Printf("✅ SQLite store opened at %s", cfg.DatabasePath)
	case "memory":
		store = storage.NewMemoryStore()
		log.Println("✅ In-memory store initialized (state is lost on restart)")
	default:
		log.Fatalf("❌ Unknown STORAGE_DRIVER %q (expected \"memory\" or \"sqlite\")", cfg.StorageDriver)
	}
	defer store.Close()

	// Initialize Prometheus metrics
	services.InitMetrics()

	// Initialize generator client
	if cfg.OpenAIAPIKey == "" {
		log.Println("⚠️  OPENAI_API_KEY not set - summarize and report generation will fail upstream")
	}
	generator := services.NewOpenAIService(cfg)
	reportService := services.NewReportService(store, generator)

	// Initialize scheduled weekly reports
	var reportScheduler *jobs.ReportScheduler
	if cfg.ReportScheduleEnabled {
		var err error
		reportScheduler, err = jobs.NewReportScheduler(reportService, cfg.ReportScheduleCron)
		if err != nil {
			log.Fatalf("❌ Failed to create report scheduler: %v", err)
		}
		if err := reportScheduler.Start(); err != nil {
			log.Fatalf("❌ Failed to start report scheduler: %v", err)
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ProjectPulse v1.0",
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute, // report generation waits on the LLM
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("projectpulse")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		// Default to localhost for development
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Generator=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.GeneratorMax,
	)
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	generatorLimiter := middleware.GeneratorRateLimiter(rateLimitConfig)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.StorageDriver)
	projectHandler := handlers.NewProjectHandler(store)
	taskHandler := handlers.NewTaskHandler(store)
	meetingHandler := handlers.NewMeetingHandler(store, generator)
	reportHandler := handlers.NewReportHandler(store, reportService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	app.Get("/api/projects", projectHandler.List)
	app.Post("/api/projects", projectHandler.Create)

	app.Get("/api/tasks", taskHandler.List)
	app.Post("/api/tasks", taskHandler.Create)
	app.Patch("/api/tasks/:id", taskHandler.Update)
	app.Delete("/api/tasks/:id", taskHandler.Delete)

	app.Get("/api/meetings", meetingHandler.List)
	app.Post("/api/meetings", meetingHandler.Create)
	app.Post("/api/meetings/:id/summarize", generatorLimiter, meetingHandler.Summarize)

	app.Get("/api/reports", reportHandler.List)
	app.Post("/api/reports/generate", generatorLimiter, reportHandler.Generate)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if reportScheduler != nil {
			if err := reportScheduler.Stop(); err != nil {
				log.Printf("⚠️ Error stopping report scheduler: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
