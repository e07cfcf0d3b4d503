// Package app wires configuration, storage, caches and services into a
// running MindPulse instance. Both the API server and the seed command
// build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpulse/internal/cache"
	"mindpulse/internal/config"
	"mindpulse/internal/events"
	"mindpulse/internal/observability"
	"mindpulse/internal/repository"
	"mindpulse/internal/repository/sqlite"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest"
	"mindpulse/internal/transport/ws"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config     *config.Config
	Log        *slog.Logger
	Store      *repository.Store
	Metrics    *observability.Metrics
	Dashboards cache.DashboardCache
	Publisher  events.Publisher
	Hub        *ws.Hub

	AuthService     *service.AuthService
	UserService     *service.UserService
	CheckinService  *service.CheckinService
	InsightService  *service.InsightService
	AlertService    *service.AlertService
	AnalysisService *service.AnalysisService

	closers []func(context.Context) error
}

// New connects every backend named by cfg and builds the services.
// Analysis workers are not started; call Start for that.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Metrics: observability.NewMetrics()}

	if err := a.openStore(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	tokens, err := a.openCaches(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Publisher = events.NewNoopPublisher()
	if cfg.Kafka.Enabled() {
		a.Publisher = events.NewKafkaPublisher(cfg.Kafka, log)
		log.Info("kafka_publisher_enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.Topic))
	}
	a.onClose(func(context.Context) error { return a.Publisher.Close() })

	a.Hub = ws.NewHub(a.Metrics, log)
	a.onClose(func(context.Context) error { a.Hub.Close(); return nil })

	a.AnalysisService = service.NewAnalysisService(a.Store, a.Dashboards, a.Publisher, a.Metrics, cfg.Analysis, log)
	a.AnalysisService.SetNotifier(a.Hub)
	a.onClose(a.AnalysisService.Stop)

	a.AuthService = service.NewAuthService(a.Store, tokens, cfg.Auth, log)
	a.UserService = service.NewUserService(a.Store)
	a.CheckinService = service.NewCheckinService(a.Store, a.Dashboards, a.AnalysisService, log)
	a.InsightService = service.NewInsightService(a.Store, a.Dashboards, a.Metrics, log)
	a.AlertService = service.NewAlertService(a.Store, a.Dashboards, log)
	return a, nil
}

// Start launches the analysis workers
func (a *App) Start() {
	a.AnalysisService.Start()
}

// Handler returns the HTTP API
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		Config:         a.Config,
		AuthService:    a.AuthService,
		UserService:    a.UserService,
		CheckinService: a.CheckinService,
		InsightService: a.InsightService,
		AlertService:   a.AlertService,
		WSHub:          a.Hub,
		Metrics:        a.Metrics,
		Log:            a.Log,
	})
}

// Close drains the analysis queue and releases backends in reverse
// order of acquisition
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(a.Config.Store.SQLitePath)
		if err != nil {
			return err
		}
		a.onClose(func(context.Context) error { return db.Close() })
		a.Store = sqlite.NewStore(db)
		a.Log.Info("store_ready", slog.String("driver", config.DriverSQLite), slog.String("path", a.Config.Store.SQLitePath))
		return nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.Mongo.URI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.onClose(client.Disconnect)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}

		db := client.Database(a.Config.Mongo.Database)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		a.Store = repository.NewMongoStore(db)
		a.Log.Info("store_ready", slog.String("driver", config.DriverMongo), slog.String("database", a.Config.Mongo.Database))
		return nil
	}
	return fmt.Errorf("unknown store driver %q", a.Config.Store.Driver)
}

// openCaches connects redis when configured. Without it dashboards are
// computed on every request and revoked tokens live in process memory.
func (a *App) openCaches(ctx context.Context) (cache.TokenCache, error) {
	if !a.Config.Redis.Enabled() {
		a.Dashboards = cache.NewNoopDashboardCache()
		a.Log.Warn("redis_disabled", slog.String("reason", "redis.addr is empty"))
		return cache.NewMemoryTokenCache(), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: a.Config.Redis.Addr})
	a.onClose(func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	a.Dashboards = cache.NewDashboardCache(rdb, a.Config.Redis.DashboardTTL)
	a.Log.Info("redis_ready", slog.String("addr", a.Config.Redis.Addr))
	return cache.NewTokenCache(rdb), nil
}
