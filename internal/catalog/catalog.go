// Package catalog lists every known timezone with its current offset and a
// human readable label.
package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aleister1102/zoneshift/internal/cache"
	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/rs/zerolog"
)

const (
	// CacheKey is the single cache entry holding the catalog.
	CacheKey = "timezone.timezones"
	// DefaultTTL is how long a computed catalog is reused.
	DefaultTTL = 360 * time.Second
)

// Entry is one timezone in the catalog. Offset is in seconds east of UTC at
// the moment the catalog was built.
type Entry struct {
	ID     string `json:"id"`
	Offset int    `json:"offset"`
	Label  string `json:"label"`
}

// Options configures a Catalog.
type Options struct {
	Source    ZoneSource
	Store     cache.Store
	Clock     timeutils.Clock
	TTL       time.Duration
	Logger    zerolog.Logger
	OnRebuild func(entries int, took time.Duration)
}

// Catalog builds and caches the timezone list.
type Catalog struct {
	source    ZoneSource
	store     cache.Store
	clock     timeutils.Clock
	ttl       time.Duration
	logger    zerolog.Logger
	onRebuild func(int, time.Duration)
}

// New fills defaults: system zones, an in-memory store and DefaultTTL.
func New(opts Options) *Catalog {
	c := &Catalog{
		source:    opts.Source,
		store:     opts.Store,
		clock:     timeutils.OrSystem(opts.Clock),
		ttl:       opts.TTL,
		logger:    opts.Logger.With().Str("component", "catalog").Logger(),
		onRebuild: opts.OnRebuild,
	}
	if c.source == nil {
		c.source = DefaultSystemZones()
	}
	if c.store == nil {
		c.store = cache.NewMemoryStore(c.clock)
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	return c
}

// List returns the cached catalog, rebuilding it on a miss. Concurrent
// misses each rebuild and overwrite the entry with the same result.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := c.store.Get(ctx, CacheKey, &entries)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, common.ErrCacheMiss) {
		c.logger.Warn().Err(err).Msg("Catalog cache read failed, rebuilding")
	}

	entries, err = c.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, CacheKey, entries, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache timezone catalog")
	}
	return entries, nil
}

// Build computes the catalog without touching the cache.
func (c *Catalog) Build(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	ids, err := c.source.Zones(ctx)
	if err != nil {
		return nil, common.WrapError(err, "list timezone identifiers")
	}

	now := c.clock.Now()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		loc, err := time.LoadLocation(id)
		if err != nil {
			c.logger.Debug().Str("zone", id).Err(err).Msg("Skipping unloadable timezone")
			continue
		}
		_, offset := now.In(loc).Zone()
		entries = append(entries, Entry{ID: id, Offset: offset, Label: Label(id, offset)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Offset != entries[j].Offset {
			return entries[i].Offset < entries[j].Offset
		}
		return entries[i].Label < entries[j].Label
	})

	took := time.Since(start)
	c.logger.Debug().Int("zones", len(entries)).Dur("took", took).Msg("Timezone catalog rebuilt")
	if c.onRebuild != nil {
		c.onRebuild(len(entries), took)
	}
	return entries, nil
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, CacheKey)
}
