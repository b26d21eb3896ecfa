package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/config"
	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/handlers"
	"github.com/graham-fleming/lifehub/internal/logger"
	"github.com/graham-fleming/lifehub/internal/middleware"
	"github.com/graham-fleming/lifehub/internal/queue"
	"github.com/graham-fleming/lifehub/internal/services/ai"
	"github.com/graham-fleming/lifehub/internal/services/oidc"
	"github.com/graham-fleming/lifehub/internal/services/saver"
	"github.com/graham-fleming/lifehub/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "lifehub-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database",
		zap.Bool("vector_search_available", db.VectorSearchAvailable()),
	)

	// Redis for rate limiting
	redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// RabbitMQ for the re-embedding queue. Optional: without it the API
	// still serves everything except embedding migrations.
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		jobQueue, err = connectQueueWithRetry(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
		}
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_rabbitmq")
	} else {
		zapLogger.Warn("rabbitmq_not_configured_reembedding_disabled")
	}

	// Repositories
	contactRepo := database.NewContactRepository(db)
	txRepo := database.NewTransactionRepository(db)
	budgetRepo := database.NewBudgetRepository(db)
	workoutRepo := database.NewWorkoutRepository(db)
	mealRepo := database.NewMealRepository(db)
	habitRepo := database.NewHabitRepository(db)
	moodRepo := database.NewMoodRepository(db)
	tripRepo := database.NewTripRepository(db)
	taskRepo := database.NewTaskRepository(db)
	projectRepo := database.NewProjectRepository(db)
	savedItemRepo := database.NewSavedItemRepository(db)
	oidcConfigRepo := database.NewOIDCConfigRepository(db)
	corsConfigRepo := database.NewCorsConfigRepository(db)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(db)
	activityRepo := database.NewUserActivityRepository(db)

	// Services
	oidcProvider := oidc.NewProvider(oidcConfigRepo)
	jwksManager := oidc.NewJWKSManager()

	var saverService *saver.Service
	if cfg.OpenAIKey != "" {
		aiProvider, err := createAIProvider(cfg, zapLogger, debugMode)
		if err != nil {
			zapLogger.Fatal("failed_to_create_ai_provider", zap.Error(err))
		}
		saverService = saver.NewService(aiProvider, savedItemRepo, zapLogger)
	} else {
		zapLogger.Warn("openai_key_not_configured_saver_disabled")
	}

	seeder := demo.NewSeeder(contactRepo, taskRepo, zapLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(oidcProvider, cfg.OIDCProvider)
	contactHandler := handlers.NewContactHandler(contactRepo)
	financeHandler := handlers.NewFinanceHandler(txRepo, budgetRepo)
	fitnessHandler := handlers.NewFitnessHandler(workoutRepo)
	mealHandler := handlers.NewMealHandler(mealRepo)
	habitHandler := handlers.NewHabitHandler(habitRepo)
	wellnessHandler := handlers.NewWellnessHandler(moodRepo)
	travelHandler := handlers.NewTravelHandler(tripRepo)
	taskHandler := handlers.NewTaskHandler(taskRepo, contactRepo)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	demoHandler := handlers.NewDemoHandler(seeder)
	healthChecker := handlers.NewHealthChecker(db, redisClient, jobQueue)

	var saverHandler *handlers.SaverHandler
	if saverService != nil {
		saverHandler = handlers.NewSaverHandler(saverService, savedItemRepo)
	}

	// Router and middleware. gorilla/mux runs middleware in registration
	// order, so the outermost concerns are registered first.
	r := mux.NewRouter()

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("lifehub-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))

	corsReloader := middleware.NewCORSReloader(corsConfigRepo, cfg.FrontendURL, zapLogger, 1*time.Minute)
	r.Use(corsReloader.Middleware())

	rateLimitReloader := middleware.NewRateLimitReloader(redisClient, ratelimitConfigRepo, "5-S", zapLogger, 1*time.Minute)
	rateLimitMW := rateLimitReloader.Middleware()

	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))
	r.Use(middleware.ActivityTracking(activityRepo))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	// Auth routes
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()

	loginRouter := authRouter.PathPrefix("/oidc").Subrouter()
	loginRouter.Use(rateLimitMW)
	loginRouter.HandleFunc("/login", authHandler.GetOIDCLogin).Methods("GET")

	protectedAuthRouter := authRouter.PathPrefix("").Subrouter()
	protectedAuthRouter.Use(middleware.Auth(db, oidcProvider, jwksManager, cfg.OIDCProvider))
	protectedAuthRouter.Use(rateLimitMW)
	protectedAuthRouter.HandleFunc("/me", authHandler.GetMe).Methods("GET")

	// Guest-capable module routes. OptionalAuth resolves a user when a
	// valid token is present; list handlers serve demo fixtures otherwise
	// and mutating handlers reject unauthenticated requests themselves.
	optionalAuth := middleware.OptionalAuth(db, oidcProvider, jwksManager, cfg.OIDCProvider)
	modules := map[string]interface{ RegisterRoutes(*mux.Router) }{
		"/contacts": contactHandler,
		"/finance":  financeHandler,
		"/fitness":  fitnessHandler,
		"/meals":    mealHandler,
		"/habits":   habitHandler,
		"/wellness": wellnessHandler,
		"/travel":   travelHandler,
		"/tasks":    taskHandler,
		"/projects": projectHandler,
	}
	for prefix, handler := range modules {
		moduleRouter := apiRouter.PathPrefix(prefix).Subrouter()
		moduleRouter.Use(optionalAuth)
		moduleRouter.Use(rateLimitMW)
		handler.RegisterRoutes(moduleRouter)
	}

	// Saver routes (guest-capable listing, authenticated save/search)
	if saverHandler != nil {
		saverRouter := apiRouter.PathPrefix("/saver").Subrouter()
		saverRouter.Use(optionalAuth)
		saverRouter.Use(rateLimitMW)
		saverHandler.RegisterRoutes(saverRouter)
	}

	// Demo seeding (always authenticated)
	demoRouter := apiRouter.PathPrefix("/demo").Subrouter()
	demoRouter.Use(middleware.Auth(db, oidcProvider, jwksManager, cfg.OIDCProvider))
	demoRouter.Use(rateLimitMW)
	demoHandler.RegisterRoutes(demoRouter)

	// Catch-all OPTIONS handler for preflight requests; the CORS
	// middleware has already set the response headers.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// CORS and rate limit hot-reload loops
	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	defer reloadCancel()
	go corsReloader.Start(reloadCtx)
	go rateLimitReloader.Start(reloadCtx)

	// DLQ garbage collection, hourly with 24 hour retention
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, 1*time.Hour, 24*time.Hour, zapLogger)
		go func() {
			if err := dlqGC.Start(reloadCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	reloadCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createAIProvider builds the classification/embedding provider selected by
// AI_PROVIDER. The OpenAI provider is constructed directly so it carries the
// logger; anything else goes through the registry.
func createAIProvider(cfg *config.Config, logger *zap.Logger, debugMode bool) (ai.AIProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "openai"
	}

	if providerType == "openai" {
		return ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			cfg.EmbeddingModel,
			cfg.EmbeddingDimensions,
			logger,
			debugMode,
		), nil
	}

	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)

	return registry.GetProvider(providerType, map[string]string{
		"api_key":         cfg.OpenAIKey,
		"model":           cfg.AIModel,
		"base_url":        cfg.AIBaseURL,
		"embedding_model": cfg.EmbeddingModel,
	})
}

// connectQueueWithRetry dials RabbitMQ with exponential backoff to ride
// out broker startup delays.
func connectQueueWithRetry(amqpURL string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			return jobQueue, nil
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	return nil, lastErr
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
