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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/config"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/db/postgres"
	dbRedis "github.com/jeffMauritius/ai-project-v1-sub000/internal/db/redis"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/page"
	logpkg "github.com/jeffMauritius/ai-project-v1-sub000/internal/logger"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/metrics"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/repository/catalog"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/repository/criteriacache"
	sessionrepo "github.com/jeffMauritius/ai-project-v1-sub000/internal/repository/session"
	bedrockClf "github.com/jeffMauritius/ai-project-v1-sub000/internal/transport/bedrock"
	chiTransport "github.com/jeffMauritius/ai-project-v1-sub000/internal/transport/chi"
	openaiClf "github.com/jeffMauritius/ai-project-v1-sub000/internal/transport/openai"
	healthuc "github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/health"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/interpret"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/retrieval"
	searchuc "github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/search"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

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

	logger.Info("Starting wedsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("classifier", cfg.Classifier.Provider),
	)

	ctx := context.Background()

	// Catalog
	pg, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns), //nolint:gosec // bounded by config validation
	})
	if err != nil {
		logger.Fatal("Failed to create catalog pool", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Catalog database not ready", zap.Error(err))
	}
	logger.Info("Connected to catalog database")

	// Shared store (criteria cache tier + sessions). Valkey speaks the same protocol.
	var store *dbRedis.Store
	if cfg.Cache.Shared() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create shared store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Shared store not ready", zap.Error(err))
		}
		logger.Info("Connected to shared store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Criteria cache: in-process LRU, optionally backed by the shared store.
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	memory := criteriacache.NewMemory(cfg.Cache.MemorySize, ttl, metrics.CriteriaCacheTotal)
	var cache interpret.Cache = memory
	if store != nil {
		shared := criteriacache.NewShared(store, cfg.Cache.KeyPrefix, ttl, metrics.CriteriaCacheTotal, logger)
		cache = criteriacache.NewTiered(memory, shared)
	}

	// Pass nil interfaces (not typed nil pointers) when a component is absent.
	classifier, classifierHealth := buildClassifier(ctx, cfg.Classifier, logger)

	interpreter := interpret.New(cache, classifier, metrics.InterpretationsTotal, logger)

	catalogRepo := catalog.New(pg)
	retriever := retrieval.New(catalogRepo, catalogRepo, logger)

	searchSvc := searchuc.New(interpreter, retriever, page.Limits{
		Default: cfg.Search.DefaultPageSize,
		Max:     cfg.Search.MaxPageSize,
	})

	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(pg, cachePinger, classifierHealth)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsMiddleware(cfg.CORS))
	if cfg.Auth.Disabled {
		logger.Warn("Authentication disabled")
	} else {
		r.Use(chiTransport.AuthMiddleware(authOptions(cfg.Auth, store, logger)))
	}
	r.Use(metrics.Middleware())
	server.Routes(r)

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

	logger.Info("Server stopped gracefully")
}

// buildClassifier returns the configured external classifier and, when the provider
// supports it, its health checker. Both are nil for provider "none".
func buildClassifier(
	ctx context.Context,
	cfg config.ClassifierConfig,
	logger *zap.Logger,
) (interpret.Classifier, healthuc.ClassifierChecker) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case "openai":
		c := openaiClf.NewClassifier(&openaiClf.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     timeout,
			Logger:      logger,
		})
		logger.Info("Classifier created", zap.String("provider", "openai"), zap.String("model", cfg.Model))
		return c, c
	case "bedrock":
		c, err := bedrockClf.NewClassifier(ctx, &bedrockClf.Config{
			Region:      cfg.Region,
			ModelID:     cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     timeout,
			Logger:      logger,
		})
		if err != nil {
			logger.Fatal("Failed to create bedrock classifier", zap.Error(err))
		}
		logger.Info("Classifier created", zap.String("provider", "bedrock"), zap.String("model", cfg.Model))
		return c, nil
	default:
		logger.Warn("No external classifier, heuristic fallback only")
		return nil, nil
	}
}

func authOptions(cfg config.AuthConfig, store *dbRedis.Store, logger *zap.Logger) chiTransport.AuthOptions {
	opts := chiTransport.AuthOptions{
		APIKeys:       cfg.APIKeys,
		SessionCookie: cfg.SessionCookie,
		Logger:        logger,
	}
	if store != nil {
		opts.Sessions = sessionrepo.New(store, cfg.SessionPrefix)
	}
	return opts
}

func corsMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Error:   "Internal server error",
						Details: fmt.Sprint(rvr),
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
