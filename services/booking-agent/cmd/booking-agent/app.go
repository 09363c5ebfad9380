package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/md-rashed-zaman/apptagent/libs/db"
	"github.com/md-rashed-zaman/apptagent/libs/llm"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/agent"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/appconfig"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/booking"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/events"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/rephrase"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/storage"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/tools"
)

type store interface {
	booking.Store
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// openStore picks the backend from the DATABASE_URL scheme and creates the
// appointments table when it is missing.
func openStore(ctx context.Context, databaseURL string, logger *slog.Logger) (store, func(), error) {
	driver, target, err := db.Driver(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	var (
		s       store
		closeFn func()
	)
	switch driver {
	case "postgres":
		pool, err := db.Open(ctx, target)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		s, closeFn = storage.NewPostgresRepository(pool), pool.Close
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, target)
		if err != nil {
			return nil, nil, err
		}
		s, closeFn = storage.NewSQLiteRepository(conn), func() { _ = conn.Close() }
	}
	if err := s.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("store ready", "driver", driver)
	return s, closeFn, nil
}

type app struct {
	store    store
	service  *booking.Service
	registry *tools.Registry
	agent    *agent.Agent
	close    func()
}

// newApp builds everything both serve and chat need. agent is nil when no
// model API key is configured.
func newApp(ctx context.Context, cfg appconfig.Config, logger *slog.Logger) (*app, error) {
	st, closeStore, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	closers := []func(){closeStore}

	publisher := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}, logger)
	if c, ok := publisher.(io.Closer); ok {
		closers = append(closers, func() { _ = c.Close() })
	}
	svc := booking.NewService(st, publisher, logger)

	var provider llm.ChatProvider
	if cfg.LLMConfigured() {
		provider, err = llm.New(cfg.LLM)
		if err != nil {
			runAll(closers)
			return nil, err
		}
	} else {
		logger.Warn("no llm api key configured; chat and rephrasing disabled", "provider", cfg.LLM.Provider)
	}

	var rephraser rephrase.Rephraser = rephrase.Passthrough{}
	if provider != nil && cfg.RephraseEnabled {
		r, err := rephrase.NewLLM(provider, rephrase.LLMConfig{Model: cfg.LLM.Model, CacheSize: cfg.RephraseCacheSize}, logger)
		if err != nil {
			runAll(closers)
			return nil, err
		}
		rephraser = r
	}

	var opts []tools.Option
	if cfg.RephraseResults {
		opts = append(opts, tools.WithResultRephrasing())
	}
	registry, err := tools.NewRegistry(svc, rephraser, logger, opts...)
	if err != nil {
		runAll(closers)
		return nil, err
	}

	a := &app{store: st, service: svc, registry: registry, close: func() { runAll(closers) }}
	if provider != nil {
		a.agent = agent.New(provider, registry, agent.Config{Model: cfg.LLM.Model, MaxIterations: cfg.MaxIterations}, logger)
	}
	return a, nil
}

// runAll closes in reverse order of opening.
func runAll(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
