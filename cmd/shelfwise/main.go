package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/config"
	dbRedis "github.com/shelfwise/shelfwise/internal/db/redis"
	"github.com/shelfwise/shelfwise/internal/extract"
	logpkg "github.com/shelfwise/shelfwise/internal/logger"
	"github.com/shelfwise/shelfwise/internal/metrics"
	blobrepo "github.com/shelfwise/shelfwise/internal/repository/blob"
	cacherepo "github.com/shelfwise/shelfwise/internal/repository/cache"
	indexrepo "github.com/shelfwise/shelfwise/internal/repository/index"
	metadatarepo "github.com/shelfwise/shelfwise/internal/repository/metadata"
	chiTransport "github.com/shelfwise/shelfwise/internal/transport/chi"
	openaiLLM "github.com/shelfwise/shelfwise/internal/transport/openai"
	chatuc "github.com/shelfwise/shelfwise/internal/usecase/chat"
	healthuc "github.com/shelfwise/shelfwise/internal/usecase/health"
	ingestuc "github.com/shelfwise/shelfwise/internal/usecase/ingest"
	libraryuc "github.com/shelfwise/shelfwise/internal/usecase/library"
	planneruc "github.com/shelfwise/shelfwise/internal/usecase/planner"
	relevanceuc "github.com/shelfwise/shelfwise/internal/usecase/relevance"
	resolveruc "github.com/shelfwise/shelfwise/internal/usecase/resolver"
	suggestuc "github.com/shelfwise/shelfwise/internal/usecase/suggest"
	"github.com/shelfwise/shelfwise/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shelfwise API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("aws_bucket", cfg.AWS.Bucket),
		zap.String("llm_model", cfg.LLM.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterLLMMetrics()
	metrics.RegisterIngestMetrics()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	presignClient := s3.NewPresignClient(s3Client)

	completer := openaiLLM.NewCompleter(&openaiLLM.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Logger:  logger,
	})

	// Create repositories (domain-native, no adapters)
	indexRepo := indexrepo.New(store, cfg.Search.IndexName, cfg.Search.KeyPrefix)
	if err := indexRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}
	metaRepo := metadatarepo.New(dynamoClient, cfg.AWS.Table)
	blobStore := blobrepo.New(
		s3Client, presignClient, cfg.AWS.Bucket,
		time.Duration(cfg.AWS.PresignTTLSec)*time.Second,
	)
	suggestionCache := cacherepo.NewRedis(store, "cache:")
	extractor := extract.New(cfg.Ingest.MaxPDFPages, cfg.Ingest.MaxTextChars)

	// Create use case services
	rankerSvc := relevanceuc.New(completer)
	plannerSvc := planneruc.New(indexRepo, completer)
	resolverSvc := resolveruc.New(metaRepo, indexRepo, cfg.Search.MatchThreshold)
	chatSvc := chatuc.New(plannerSvc, rankerSvc, resolverSvc, completer)
	suggestSvc := suggestuc.New(
		metaRepo, suggestionCache, completer,
		time.Duration(cfg.Cache.SuggestionTTLSec)*time.Second,
		time.Duration(cfg.Cache.InsightsTTLSec)*time.Second,
	)
	ingestSvc := ingestuc.New(
		blobStore, metaRepo, indexRepo, extractor, completer,
		cfg.Ingest.QueueSize, cfg.Ingest.Workers, logger,
	)
	librarySvc := libraryuc.New(resolverSvc, metaRepo, indexRepo, blobStore)
	healthSvc := healthuc.New(store, completer).WithVersion(version.Version)

	// Worker pool lifecycle is tied to the process, not the HTTP server, so
	// in-flight jobs drain after the listener stops accepting requests.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	ingestSvc.Start(workerCtx)

	server := chiTransport.NewServer(
		plannerSvc, rankerSvc, chatSvc, ingestSvc,
		librarySvc, suggestSvc, healthSvc,
		cfg.Search.DefaultMax, cfg.Search.MaxPageSize, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Drain queued ingest jobs before exit.
	ingestSvc.Stop()

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
