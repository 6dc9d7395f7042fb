// File: cmd/app/main.go
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

	"github.com/go-chi/chi/v5"

	"video-insight/internal/config"
	"video-insight/internal/domain/ports/adapter"
	aiAdapters "video-insight/internal/infra/adapters/ai"
	"video-insight/internal/infra/adapters/notify"
	videoAdapters "video-insight/internal/infra/adapters/video"
	pg "video-insight/internal/infra/db/postgres"
	"video-insight/internal/infra/logging"
	"video-insight/internal/infra/metrics"
	red "video-insight/internal/infra/redis"
	"video-insight/internal/infra/sched"
	"video-insight/internal/infra/web"
	"video-insight/internal/infra/worker"
	"video-insight/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (stub providers)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	jobCache := red.NewJobCache(redisClient, cfg.Redis.TTL)
	changeFeed := red.NewChangeFeed(redisClient, logger)

	// ---- Repositories ----
	jobRepo := pg.NewAnalysisJobRepo(pool)
	cachedJobRepo := pg.NewJobRepoCacheDecorator(jobRepo, jobCache)
	txManager := pg.NewTxManager(pool)

	// ---- Video annotator ----
	var annotator adapter.VideoAnnotator
	if cfg.Runtime.Dev && cfg.Provider.APIKey == "" {
		annotator = videoAdapters.NewNoopAnnotator()
		logger.Warn().Msg("video annotator: noop (dev mode, no provider key)")
	} else {
		annotator, err = videoAdapters.NewGoogleAnnotator(cfg.Provider.APIKey, cfg.Provider.BaseURL, cfg.Provider.LanguageCode)
		if err != nil {
			log.Fatalf("video annotator: %v", err)
		}
		logger.Info().Str("base", cfg.Provider.BaseURL).Msg("video annotator: google")
	}

	// ---- Qualitative analyzer (Gemini -> OpenAI-compatible -> noop) ----
	var analyzer adapter.QualitativeAnalyzer
	if cfg.AI.GeminiKey != "" {
		analyzer, err = aiAdapters.NewGeminiAnalyzer(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, 0)
		if err != nil {
			log.Fatalf("gemini analyzer: %v", err)
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("qualitative analyzer: gemini")
	} else if cfg.AI.OpenAIKey != "" {
		analyzer, err = aiAdapters.NewOpenAIAnalyzer(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.Model)
		if err != nil {
			log.Fatalf("openai analyzer: %v", err)
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("qualitative analyzer: openai-compatible")
	} else {
		analyzer = aiAdapters.NewNoopAnalyzer()
		logger.Warn().Msg("qualitative analyzer: noop (no AI key configured)")
	}

	// ---- Use case ----
	analysisUC := usecase.NewAnalysisUseCase(
		cachedJobRepo,
		txManager,
		annotator,
		analyzer,
		changeFeed,
		cfg.Provider.PollInterval,
		cfg.Provider.MaxPollAttempts,
		logger,
	)

	// ---- Workers ----
	workerPool := worker.NewPool(cfg.Worker.Workers, logger)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	dispatcher := worker.NewDispatcher(workerPool, analysisUC, cachedJobRepo, cfg.Worker.RequeueInterval, cfg.Worker.RequeueAfter, logger)
	go dispatcher.Run(ctx)

	// ---- Completion notifications ----
	var notifier adapter.CompletionNotifier
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != 0 {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
		if err != nil {
			log.Fatalf("telegram notifier: %v", err)
		}
		logger.Info().Msg("completion notifier: telegram")
	} else {
		notifier = notify.NewNoopNotifier(*logger)
	}
	completionWorker := sched.NewCompletionNotifier(changeFeed, cachedJobRepo, notifier, logger)
	go func() {
		if err := completionWorker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("completion notifier stopped")
		}
	}()

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.HTTP.JWTSecret, 24*time.Hour)
	srv := web.NewServer(
		analysisUC,
		dispatcher,
		rateLimiter,
		auth,
		cfg.HTTP.RateLimit,
		time.Duration(cfg.HTTP.RateWindowSecs)*time.Second,
		logger,
	)
	router := chi.NewRouter()
	srv.RegisterRoutes(router)

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTP.Port), Handler: router}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
