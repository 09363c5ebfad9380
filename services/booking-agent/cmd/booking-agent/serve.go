package main

import (
	"context"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/apptagent/libs/httpx"
	"github.com/md-rashed-zaman/apptagent/libs/kafkax"
	otelx "github.com/md-rashed-zaman/apptagent/libs/otel"
	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/appconfig"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/handlers"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools and chat HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}
	logger := runtime.NewLogger(cfg.Service)

	ctx, stop := runtime.SignalContext(parent)
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer a.close()

	checks := []runtime.ReadyCheck{{Name: "db", Check: a.store.Ping}}
	if cfg.KafkaBrokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Optional: true, Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
	}

	var limiter httpx.Limiter = httpx.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		limiter = httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.Service)
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Optional: true, Check: httpx.RedisReadyCheck(rdb)})
	}

	var responder handlers.Responder
	if a.agent != nil {
		responder = a.agent
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	api := http.NewServeMux()
	handlers.NewHandler(a.registry, responder, a.service, logger).Register(api)
	mux.Handle("/api/", httpx.Chain(api,
		httpx.WithBearerToken(cfg.APIToken),
		httpx.WithRateLimit(limiter, logger, true),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(cfg.RequestTimeout),
	))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking-agent")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
	return nil
}
