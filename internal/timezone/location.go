package timezone

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

var locations sync.Map

// LoadLocation resolves a tz identifier, caching successful lookups.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrUnknownTimezone)
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, name)
	}
	locations.Store(name, loc)
	return loc, nil
}

// IsValid reports whether name is a loadable tz identifier.
func IsValid(name string) bool {
	_, err := LoadLocation(name)
	return err == nil
}
