package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Wafi-Ahmad/Hirehub/internal/config"
	"github.com/Wafi-Ahmad/Hirehub/internal/generator"
	"github.com/Wafi-Ahmad/Hirehub/internal/handlers"
	"github.com/Wafi-Ahmad/Hirehub/internal/jobs"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/repositories"
	"github.com/Wafi-Ahmad/Hirehub/internal/routers"
	"github.com/Wafi-Ahmad/Hirehub/internal/services"
)

func registerRoutes(router *chi.Mux, quizHandler *handlers.QuizHandler, healthHandler *handlers.HealthHandler, jwtSecret string) {
	routers.HealthRoutes(router, healthHandler)
	routers.QuizRoutes(router, quizHandler, jwtSecret)
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresDB, cfg.PostgresPort, cfg.PostgresSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Quiz{}, &models.QuizAttempt{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	quizRepo := &repositories.QuizRepository{DB: db}

	// Question generation is optional; without an API key the quiz creation
	// endpoint reports the generator as unavailable.
	var poolGenerator services.PoolGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := generator.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("Failed to initialize question generator", zap.Error(err))
		} else {
			poolGenerator = gen
			logger.Info("Question generator initialized", zap.String("model", cfg.GeminiModel))
		}
	}

	var events *services.EventPublisher
	if cfg.RedisAddr != "" {
		events = services.NewEventPublisher(cfg.RedisAddr, logger)
		defer events.Close()
		logger.Info("Event publisher initialized", zap.String("redis_addr", cfg.RedisAddr))
	}

	quizService := services.NewQuizService(quizRepo, poolGenerator, events, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)
	healthHandler := handlers.NewHealthHandler(db)

	exporterJob := jobs.NewAttemptExporterJob(quizRepo, &jobs.ExporterConfig{
		Schedule:  cfg.ExportSchedule,
		ExportDir: cfg.ExportDir,
		Enabled:   cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start attempt exporter job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))

	registerRoutes(router, quizHandler, healthHandler, cfg.JWTSecret)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Quiz service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Quiz service shutting down...")

	exporterJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Quiz service exited")
}
