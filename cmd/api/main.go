package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financial-query-pipeline/config"
	"financial-query-pipeline/config/postgre"
	configRedis "financial-query-pipeline/config/redis"
	_ "financial-query-pipeline/docs" // Swagger docs
	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/cfobrain"
	groundingRetriever "financial-query-pipeline/internal/grounding/retriever"
	"financial-query-pipeline/internal/httpserver"
	intentClassifier "financial-query-pipeline/internal/intent/classifier"
	"financial-query-pipeline/internal/jobs"
	"financial-query-pipeline/internal/middleware"
	"financial-query-pipeline/internal/pipeline"
	planRepo "financial-query-pipeline/internal/plan/repository/postgre"
	planUC "financial-query-pipeline/internal/plan/usecase"
	plannerUC "financial-query-pipeline/internal/planner/usecase"
	"financial-query-pipeline/pkg/cache"
	"financial-query-pipeline/pkg/llmprovider"
	"financial-query-pipeline/pkg/log"
)

// @title       Financial Query Pipeline API
// @description Natural-language financial planning queries: intent classification, grounded planning, and deterministic fallback reasoning.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Financial Query Pipeline...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Infrastructure
	postgresDB, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Error(ctx, "Failed to connect to PostgreSQL: ", err)
		return
	}
	defer postgre.Disconnect(ctx, postgresDB)

	redisClient, err := configRedis.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	defer configRedis.Disconnect(redisClient)

	// 4. LLM providers behind the rate-limit breaker
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}

	retryDelay, _ := time.ParseDuration(cfg.LLM.RetryDelay)
	maxTotalTimeout, _ := time.ParseDuration(cfg.LLM.MaxTotalTimeout)
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      retryDelay,
		MaxTotalTimeout: maxTotalTimeout,
	}, logger)

	rateLimitState := pipeline.NewRateLimitState(cfg.Pipeline.RateLimitCooldown)
	guardedLLM := pipeline.NewGuardedCaller(manager, rateLimitState)

	// 5. Pipeline components
	repo := planRepo.New(postgresDB, logger)

	groundingCache := cache.NewRedis(redisClient, cfg.Pipeline.CacheTTL)

	controller := pipeline.New(logger, pipeline.Deps{
		Classifier:   intentClassifier.New(logger, guardedLLM),
		Retriever:    groundingRetriever.New(logger, repo, groundingCache),
		Planner:      plannerUC.New(logger, repo),
		Assembler:    assembler.New(logger),
		Reasoner:     cfobrain.New(logger),
		Probes:       repo,
		Async:        jobs.NewQueue(logger, redisClient),
		ModelVersion: httpserver.HealthVersion,
		PollInterval: cfg.Pipeline.PollInterval,
		PollAttempts: cfg.Pipeline.PollAttempts,
	})

	// 6. Plan domain
	uc := planUC.New(logger, repo, controller)
	mw := middleware.New(logger, cfg.Pipeline.RateLimitRPS, cfg.Pipeline.RateLimitBurst)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		PostgresDB:  postgresDB,
		RedisClient: redisClient,
		PlanUseCase: uc,
		Middleware:  mw,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
