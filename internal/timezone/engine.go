// Package timezone converts date/time values between a fixed storage
// timezone and a configurable display timezone.
package timezone

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/zoneshift/internal/catalog"
	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/rs/zerolog"
)

// ZoneLister supplies the timezone catalog.
type ZoneLister interface {
	List(ctx context.Context) ([]catalog.Entry, error)
}

// Options configures an Engine.
type Options struct {
	StorageTimezone string
	DisplayTimezone string
	Format          string
	Locale          string
	ParseUKDates    bool
	Clock           timeutils.Clock
	Catalog         ZoneLister
	Logger          zerolog.Logger
}

// Engine parses raw values and re-anchors them between timezones. It is
// immutable once built and safe for concurrent use.
type Engine struct {
	storage *time.Location
	display *time.Location
	session *time.Location
	format  string
	locale  string
	ukDates bool
	clock   timeutils.Clock
	zones   ZoneLister
	logger  zerolog.Logger
}

// New validates opts and builds an Engine. An empty storage timezone means
// UTC and an empty display timezone means the storage timezone.
func New(opts Options) (*Engine, error) {
	if opts.StorageTimezone == "" {
		opts.StorageTimezone = "UTC"
	}
	storage, err := LoadLocation(opts.StorageTimezone)
	if err != nil {
		return nil, common.WrapError(err, "storage timezone")
	}

	display := storage
	if opts.DisplayTimezone != "" {
		if display, err = LoadLocation(opts.DisplayTimezone); err != nil {
			return nil, common.WrapError(err, "display timezone")
		}
	}

	if opts.Format == "" {
		opts.Format = timeutils.DefaultPattern
	}

	return &Engine{
		storage: storage,
		display: display,
		format:  opts.Format,
		locale:  opts.Locale,
		ukDates: opts.ParseUKDates,
		clock:   timeutils.OrSystem(opts.Clock),
		zones:   opts.Catalog,
		logger:  opts.Logger.With().Str("component", "timezone").Logger(),
	}, nil
}

// ForSession returns a copy whose display timezone is overridden by the
// session. An empty timezone returns the engine unchanged.
func (e *Engine) ForSession(timezone string) (*Engine, error) {
	if timezone == "" {
		return e, nil
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	cp := *e
	cp.session = loc
	return &cp, nil
}

// WithLocale returns a copy rendering in locale by default.
func (e *Engine) WithLocale(locale string) *Engine {
	cp := *e
	cp.locale = locale
	return &cp
}

// StorageTimezone returns the storage tz identifier.
func (e *Engine) StorageTimezone() string {
	return e.storage.String()
}

// CurrentTimezone returns the display timezone in effect: the session
// override when set, the configured display timezone otherwise.
func (e *Engine) CurrentTimezone() string {
	return e.current().String()
}

// DefaultFormat returns the configured display pattern.
func (e *Engine) DefaultFormat() string {
	return e.format
}

// Locale returns the default locale tag.
func (e *Engine) Locale() string {
	return e.locale
}

// ParsesUKDates reports whether "/" is read as a day-first separator.
func (e *Engine) ParsesUKDates() bool {
	return e.ukDates
}

// Now returns the engine clock's current instant as a display Moment.
func (e *Engine) Now() Moment {
	return e.moment(e.clock.Now().In(e.current()))
}

func (e *Engine) current() *time.Location {
	if e.session != nil {
		return e.session
	}
	return e.display
}

func (e *Engine) resolve(timezone string) (*time.Location, error) {
	if timezone == "" {
		return e.current(), nil
	}
	return LoadLocation(timezone)
}

func (e *Engine) moment(t time.Time) Moment {
	return NewMoment(t, e.locale, e.format)
}

// ToStorage reads raw in fromTimezone (display timezone when empty) and
// re-anchors it to the storage timezone.
func (e *Engine) ToStorage(raw any, fromTimezone string, opts ...ParseOption) (Moment, error) {
	from, err := e.resolve(fromTimezone)
	if err != nil {
		return Moment{}, err
	}
	m, err := e.createDate(raw, from, newParseConfig(opts))
	if err != nil {
		return Moment{}, err
	}
	return m.in(e.storage), nil
}

// FromStorage reads raw in the storage timezone and re-anchors it to
// toTimezone (display timezone when empty). Values that are not epochs and
// not timestamps stay in the storage timezone.
func (e *Engine) FromStorage(raw any, toTimezone string, opts ...ParseOption) (Moment, error) {
	target, err := e.resolve(toTimezone)
	if err != nil {
		return Moment{}, err
	}
	if !carriesTimezone(raw) {
		target = e.storage
	}
	m, err := e.createDate(raw, e.storage, newParseConfig(opts))
	if err != nil {
		return Moment{}, err
	}
	return m.in(target), nil
}

// ConvertToStorage is ToStorage for callers holding a pattern/locale pair,
// which is used to read localized literals.
func (e *Engine) ConvertToStorage(raw any, timezone string, format FormatSpec) (Moment, error) {
	return e.ToStorage(raw, timezone, WithFormat(format))
}

// ConvertFromStorage is the FromStorage counterpart of ConvertToStorage.
func (e *Engine) ConvertFromStorage(raw any, timezone string, format FormatSpec) (Moment, error) {
	return e.FromStorage(raw, timezone, WithFormat(format))
}

// Render formats m according to spec: paired specs use their own locale,
// plain patterns use the Moment's locale, an empty spec uses the default
// format.
func (e *Engine) Render(m Moment, spec FormatSpec) (string, error) {
	switch {
	case spec.Paired:
		return m.FormatToLocale(spec.Pattern, spec.Locale)
	case spec.Pattern != "":
		return m.Format(spec.Pattern)
	default:
		return m.Format(e.format)
	}
}

// ErrNoCatalog is returned by Timezones when no catalog is attached.
var ErrNoCatalog = errors.New("no timezone catalog configured")

// Timezones lists the timezone catalog.
func (e *Engine) Timezones(ctx context.Context) ([]catalog.Entry, error) {
	if e.zones == nil {
		return nil, ErrNoCatalog
	}
	return e.zones.List(ctx)
}
