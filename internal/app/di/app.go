// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trademaster/internal/app/router"
	candlesadapters "trademaster/internal/feature/candles/adapters"
	candleshandler "trademaster/internal/feature/candles/transport/handler"
	candlesusecase "trademaster/internal/feature/candles/usecase"
	instrumentshandler "trademaster/internal/feature/instruments/transport/handler"
	instrumentsusecase "trademaster/internal/feature/instruments/usecase"
	orbhandler "trademaster/internal/feature/orb/transport/handler"
	orbusecase "trademaster/internal/feature/orb/usecase"
	sessionusecase "trademaster/internal/feature/session/usecase"
	simulationhandler "trademaster/internal/feature/simulation/transport/handler"
	simulationusecase "trademaster/internal/feature/simulation/usecase"
	"trademaster/internal/platform/cache"
	platformhandler "trademaster/internal/platform/http/handler"
	infraredis "trademaster/internal/platform/redis"
	"trademaster/internal/shared/ratelimiter"
)

// App holds the wired components shared by the server and the batch job.
type App struct {
	Redis      *redis.Client // nil when Redis is not configured or unreachable
	Catalog    *instrumentsusecase.CatalogUsecase
	Sessions   *sessionusecase.Manager
	Collector  *candlesusecase.Collector
	Collection *candlesusecase.CollectionUsecase
	Training   *candlesusecase.TrainingUsecase
	Runner     *simulationusecase.Runner
	Scanner    *orbusecase.Scanner

	closers []func() error
}

// NewApp wires every component from environment configuration.
// Redis is optional: without it the catalog is not cached and the broker session is process-local.
func NewApp(ctx context.Context) (*App, error) {
	a := &App{}

	if cfg := infraredis.LoadConfig(); cfg.Enabled() {
		rdb, err := infraredis.NewRedisClient(ctx, cfg)
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "addr", cfg.Addr(), "error", err)
		} else {
			a.Redis = rdb
			a.closers = append(a.closers, rdb.Close)
		}
	}

	repo, closeRepo, err := NewCatalogRepository(a.Redis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)
	a.Catalog = instrumentsusecase.NewCatalogUsecase(repo)

	a.Sessions = NewSessionManager(a.Redis, a.Catalog)

	cc := LoadCollectConfig()
	// 起動時にログインできなくても、最初の取得時に再認証する
	src, err := a.Sessions.Source(ctx)
	if err != nil {
		slog.Warn("broker session not ready at startup", "error", err)
	}
	fetcher := candlesusecase.NewFetcher(src, ratelimiter.NewRateLimiter(cc.MinSpacing))
	a.Collector = candlesusecase.NewCollector(fetcher, a.Sessions, candlesusecase.CollectorConfig{
		Exchange:    cc.Exchange,
		MaxAttempts: cc.MaxAttempts,
		Location:    cache.IST(),
	})
	a.Collection = candlesusecase.NewCollectionUsecase(a.Catalog, a.Collector, candlesadapters.NewCorpusMemory(cc.StoreLimit))
	a.Training = candlesusecase.NewTrainingUsecase(a.Catalog, a.Collector, candlesusecase.TrainingConfig{})

	sc := LoadSimulationConfig()
	a.Runner = simulationusecase.NewRunner(sc.Engine, sc.Parallelism)
	a.Scanner = orbusecase.NewScanner(orbusecase.DefaultVolumePeriod)

	return a, nil
}

// Handlers builds the HTTP handlers for the router.
func (a *App) Handlers() router.Handlers {
	checks := []platformhandler.Check{{
		Name: "broker_session",
		Probe: func(context.Context) error {
			if !a.Sessions.Session().IsValid(time.Now()) {
				return sessionusecase.ErrNoSession
			}
			return nil
		},
	}}
	if a.Redis != nil {
		checks = append(checks, platformhandler.Check{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
		})
	}

	return router.Handlers{
		Health:      platformhandler.NewHealthHandler(2*time.Second, checks...),
		Instruments: instrumentshandler.NewInstrumentsHandler(a.Catalog),
		Candles:     candleshandler.NewCandlesHandler(a.Collection, a.Training),
		ORB:         orbhandler.NewORBHandler(a.Collection, a.Scanner),
		Simulation:  simulationhandler.NewSimulationHandler(a.Collection, a.Runner),
	}
}

// Close releases Redis and database connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
