// Package app wires the support form's stores, responders and services
// from a Config. Redis, Mongo and Kafka are each optional.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkeep/intelligent-support-form/internal/arbiter"
	"github.com/inkeep/intelligent-support-form/internal/cache"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/events"
	"github.com/inkeep/intelligent-support-form/internal/repository"
	"github.com/inkeep/intelligent-support-form/internal/responder"
	"github.com/inkeep/intelligent-support-form/internal/service"
)

type App struct {
	Config *config.Config
	Log    *slog.Logger

	SessionCache cache.SessionCache
	TicketRepo   repository.TicketRepo
	SessionRepo  repository.SessionRepo
	Publisher    events.Publisher

	Arbitrator     *arbiter.Arbitrator
	AuthService    *service.AuthService
	TicketService  *service.TicketService
	SessionService *service.SessionService

	closers []func(context.Context) error
}

// NewLogger builds the process logger from a level name
func NewLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// New connects the configured backends and builds every service
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.SessionCache = cache.NewSessionCache(rdb, cfg.Session.TTL, cfg.Session.LockTTL)
		log.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr))
	} else {
		a.SessionCache = cache.NewMemorySessionCache(cfg.Session.TTL, cfg.Session.LockTTL)
		log.Warn("REDIS_URI not set, keeping sessions in memory")
	}

	if cfg.Mongo.URI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			client.Disconnect(ctx)
			a.Close(ctx)
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		db := client.Database(cfg.Mongo.Database)
		a.TicketRepo = repository.NewTicketRepo(db)
		a.SessionRepo = repository.NewSessionRepo(db)
		log.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))
	} else {
		log.Warn("MONGO_URI not set, ticket records and session archives are disabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		a.closers = append(a.closers, func(context.Context) error { return pub.Close() })
		a.Publisher = pub
		log.Info("publishing events", slog.String("topic", cfg.Kafka.Topic))
	} else {
		a.Publisher = events.Discard()
		log.Warn("KAFKA_BROKERS not set, events are discarded")
	}

	a.Arbitrator = NewArbitrator(cfg, log)
	a.AuthService = service.NewAuthService(cfg.Session.JWTSecret, cfg.Session.TTL)

	a.TicketService = service.NewTicketService(cfg.Zendesk, service.NewZendeskClient(cfg.Zendesk, log), a.TicketRepo, a.Publisher, log)
	a.SessionService = service.NewSessionService(a.SessionCache, a.SessionRepo, a.Arbitrator, a.TicketService, a.AuthService, a.Publisher, log)
	return a, nil
}

// NewArbitrator builds both responders from the AI config
func NewArbitrator(cfg *config.Config, log *slog.Logger) *arbiter.Arbitrator {
	if !cfg.AI.IsEnabled() {
		log.Warn("INKEEP_API_KEY not set, every question escalates to the ticket form")
	}
	return arbiter.New(
		responder.NewQA(cfg.AI, log),
		responder.NewContext(cfg.AI, log),
		cfg.BotName,
		log,
	)
}

// Close releases backends in reverse order of connection
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("close failed", slog.Any("err", err))
		}
	}
	a.closers = nil
}
