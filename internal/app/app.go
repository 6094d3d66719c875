// Package app assembles the engine, catalog, cache and metrics from a
// GlobalConfig.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/aleister1102/zoneshift/internal/cache"
	"github.com/aleister1102/zoneshift/internal/catalog"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/aleister1102/zoneshift/internal/metrics"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the long lived components shared by every command.
type App struct {
	Engines  *timezone.Holder
	Catalog  *catalog.Catalog
	Cache    cache.Store
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	clock  timeutils.Clock
	base   zerolog.Logger
	logger zerolog.Logger
	redis  *redis.Client
}

// Options configures Build.
type Options struct {
	Clock  timeutils.Clock
	Logger zerolog.Logger
	// Source overrides the system zoneinfo walk.
	Source catalog.ZoneSource
}

// Build wires the components described by cfg. Close releases them.
func Build(ctx context.Context, cfg *config.GlobalConfig, opts Options) (*App, error) {
	a := &App{
		clock:    timeutils.OrSystem(opts.Clock),
		base:     opts.Logger,
		logger:   opts.Logger.With().Str("component", "app").Logger(),
		Registry: prometheus.NewRegistry(),
	}
	a.Metrics = metrics.New(a.Registry)

	store, err := a.openCache(ctx, cfg.CacheConfig)
	if err != nil {
		return nil, err
	}
	a.Cache = store

	a.Catalog = catalog.New(catalog.Options{
		Source:    opts.Source,
		Store:     store,
		Clock:     a.clock,
		TTL:       cfg.CacheConfig.CatalogTTL(),
		Logger:    opts.Logger,
		OnRebuild: a.Metrics.ObserveCatalogRebuild,
	})

	engine, err := a.NewEngine(cfg.TimezoneConfig)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Engines = timezone.NewHolder(engine)

	a.logger.Debug().
		Str("storage_timezone", engine.StorageTimezone()).
		Str("display_timezone", engine.CurrentTimezone()).
		Str("cache_backend", cfg.CacheConfig.Backend).
		Msg("Application components initialized")
	return a, nil
}

func (a *App) openCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", config.CacheBackendMemory:
		return cache.NewMemoryStore(a.clock), nil
	case config.CacheBackendRedis:
		client, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			a.logger.Error().Err(err).Msg("Failed to connect to redis cache")
			return nil, fmt.Errorf("cache backend: %w", err)
		}
		a.redis = client
		return cache.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("cache backend: unknown backend %q", cfg.Backend)
	}
}

// NewEngine builds an engine from cfg sharing the app's catalog and clock.
func (a *App) NewEngine(cfg config.TimezoneConfig) (*timezone.Engine, error) {
	return timezone.New(timezone.Options{
		StorageTimezone: cfg.StorageTimezone,
		DisplayTimezone: cfg.EffectiveDisplayTimezone(),
		Format:          cfg.Format,
		Locale:          cfg.Locale,
		ParseUKDates:    cfg.ParseUKDates,
		Clock:           a.clock,
		Catalog:         a.Catalog,
		Logger:          a.base,
	})
}

// Engine returns the current engine.
func (a *App) Engine() *timezone.Engine {
	return a.Engines.Engine()
}

// Reload swaps in an engine built from cfg. On error the current engine
// stays in place. Cache settings are not reloaded.
func (a *App) Reload(cfg *config.GlobalConfig) error {
	engine, err := a.NewEngine(cfg.TimezoneConfig)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to rebuild engine, keeping the current one")
		return err
	}
	a.Engines.Store(engine)
	a.logger.Info().
		Str("display_timezone", engine.CurrentTimezone()).
		Bool("parse_uk_dates", engine.ParsesUKDates()).
		Msg("Engine reloaded")
	return nil
}

// Close releases the redis connection, if any.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
