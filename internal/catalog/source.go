package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ZoneSource enumerates tz identifiers.
type ZoneSource interface {
	Zones(ctx context.Context) ([]string, error)
}

// StaticZones is a fixed list of identifiers.
type StaticZones []string

func (s StaticZones) Zones(context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

var regionPrefixes = []string{
	"Africa/", "America/", "Antarctica/", "Arctic/", "Asia/",
	"Atlantic/", "Australia/", "Europe/", "Indian/", "Pacific/",
}

// SystemZones walks the host zoneinfo database. When no database is found
// it returns Fallback.
type SystemZones struct {
	Roots    []string
	Fallback []string
}

// DefaultSystemZones checks $ZONEINFO and the usual install locations.
func DefaultSystemZones() SystemZones {
	roots := []string{}
	if env := os.Getenv("ZONEINFO"); env != "" {
		roots = append(roots, env)
	}
	roots = append(roots,
		"/usr/share/zoneinfo",
		"/usr/share/lib/zoneinfo",
		"/usr/lib/locale/TZ",
		"/etc/zoneinfo",
	)
	return SystemZones{Roots: roots, Fallback: FallbackZones}
}

func (s SystemZones) Zones(ctx context.Context) ([]string, error) {
	for _, root := range s.Roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		ids, err := walkZoneinfo(ctx, root)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}
	return StaticZones(s.Fallback).Zones(ctx)
}

func walkZoneinfo(ctx context.Context, root string) ([]string, error) {
	seen := map[string]bool{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		id := filepath.ToSlash(rel)
		if isCatalogZone(id) {
			seen[id] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func isCatalogZone(id string) bool {
	if id == "UTC" {
		return true
	}
	for _, prefix := range regionPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// FallbackZones is used when the host has no zoneinfo tree.
var FallbackZones = []string{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
	"America/Chicago", "America/Denver", "America/Halifax", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Sao_Paulo", "America/St_Johns",
	"Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta", "Asia/Kolkata", "Asia/Seoul",
	"Asia/Shanghai", "Asia/Singapore", "Asia/Tokyo",
	"Atlantic/Azores", "Atlantic/Reykjavik",
	"Australia/Adelaide", "Australia/Brisbane", "Australia/Perth", "Australia/Sydney",
	"Europe/Amsterdam", "Europe/Berlin", "Europe/Istanbul", "Europe/London",
	"Europe/Madrid", "Europe/Moscow", "Europe/Paris",
	"Indian/Maldives", "Pacific/Auckland", "Pacific/Honolulu",
	"UTC",
}
