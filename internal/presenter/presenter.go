// Package presenter binds date fields of a single record to display
// formats and routes reads and writes through the conversion engine.
package presenter

import (
	"fmt"
	"sort"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/shape"
	"github.com/aleister1102/zoneshift/internal/timezone"
)

// Bindings maps a field name to its default format and timezone.
type Bindings map[string]timezone.FieldOverride

// Bind adds field with a format given as nil, a pattern or a
// [pattern, locale] pair.
func (b Bindings) Bind(field string, format any) error {
	spec, err := timezone.ParseFormat(format)
	if err != nil {
		return err
	}
	ov := timezone.FieldOverride{Field: field, Format: spec}
	if err := ov.Validate(); err != nil {
		return err
	}
	b[field] = ov
	return nil
}

// Fields returns the bound field names in sorted order.
func (b Bindings) Fields() []string {
	out := make([]string, 0, len(b))
	for f := range b {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Presenter is bound to one record. It is not safe for concurrent use.
type Presenter struct {
	engine   *timezone.Engine
	record   batch.Record
	bindings Bindings
	name     string

	defaultFormat timezone.FormatSpec
	locale        string
	sessionLocale string
	useSession    bool

	active   string
	adopted  timezone.FormatSpec
	activeTZ string
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithDefaultFormat sets the format used when neither the call nor the
// field supplies one.
func WithDefaultFormat(spec timezone.FormatSpec) Option {
	return func(p *Presenter) {
		p.defaultFormat = spec
	}
}

// WithLocale sets the application locale.
func WithLocale(locale string) Option {
	return func(p *Presenter) {
		p.locale = locale
	}
}

// WithSessionLocale makes the session locale win over the application
// locale when enabled.
func WithSessionLocale(locale string, enabled bool) Option {
	return func(p *Presenter) {
		p.sessionLocale = locale
		p.useSession = enabled
	}
}

// WithName sets the record name used in error messages.
func WithName(name string) Option {
	return func(p *Presenter) {
		p.name = name
	}
}

// New binds record to bindings.
func New(engine *timezone.Engine, record batch.Record, bindings Bindings, opts ...Option) *Presenter {
	p := &Presenter{
		engine:   engine,
		record:   record,
		bindings: bindings,
		name:     fmt.Sprintf("%T", record),
		locale:   engine.Locale(),
	}
	if s, ok := record.(fmt.Stringer); ok {
		p.name = s.String()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record returns the bound record.
func (p *Presenter) Record() batch.Record {
	return p.record
}

func (p *Presenter) binding(field string) (timezone.FieldOverride, error) {
	ov, ok := p.bindings[field]
	if !ok {
		return timezone.FieldOverride{}, &UnknownFieldError{Field: field, Record: p.name}
	}
	return ov, nil
}

// Select makes field the target of Display and adopts its default format.
func (p *Presenter) Select(field string) (*Presenter, error) {
	ov, err := p.binding(field)
	if err != nil {
		return nil, err
	}
	p.active = field
	p.adopted = timezone.FormatSpec{}
	p.activeTZ = ov.Timezone
	if !ov.Format.IsZero() {
		p.adopted = ov.Format
	}
	return p, nil
}

// Active returns the selected field.
func (p *Presenter) Active() string {
	return p.active
}

// Assign reads value in the current display timezone, converts it to
// storage and writes it back in the canonical layout of value's shape.
// Values of no recognizable shape are written unchanged. Fields the record
// types as time.Time receive the storage time itself.
func (p *Presenter) Assign(field string, value any) (batch.Record, error) {
	ov, err := p.binding(field)
	if err != nil {
		return nil, err
	}

	m, err := p.engine.ConvertToStorage(value, p.engine.CurrentTimezone(), ov.Format)
	if err != nil {
		return nil, fmt.Errorf("assign %s.%s: %w", p.name, field, err)
	}

	var stored any
	if th, ok := p.record.(batch.TimeHolder); ok && th.HoldsTime(field) {
		stored = m.Time()
	} else if s, ok := value.(string); ok {
		stored = value
		if sh := shape.Classify(s); sh != shape.Unrecognized {
			stored = m.Time().Format(sh.Layout(shape.HasMicroseconds(s)))
		}
	} else {
		stored = m.Time().Format(timeutils.LayoutDateTime)
	}

	if err := p.record.Set(field, stored); err != nil {
		return nil, fmt.Errorf("assign %s.%s: %w", p.name, field, err)
	}
	return p.record, nil
}

// Display renders the selected field. Empty arguments fall back to the
// field's defaults, then the presenter's, then the engine's. The timezone
// falls back to the session timezone, then the configured one.
func (p *Presenter) Display(format, locale, tz string) (string, error) {
	if p.active == "" {
		return "", ErrNoActiveField
	}

	value, ok := p.record.Get(p.active)
	if !ok || value == nil {
		return "", nil
	}

	if tz == "" {
		tz = p.activeTZ
	}
	m, err := p.engine.FromStorage(value, tz)
	if err != nil {
		return "", fmt.Errorf("display %s.%s: %w", p.name, p.active, err)
	}
	return m.FormatToLocale(p.resolveFormat(format), p.resolveLocale(locale))
}

func (p *Presenter) resolveFormat(format string) string {
	switch {
	case format != "":
		return format
	case p.adopted.Pattern != "":
		return p.adopted.Pattern
	case p.defaultFormat.Pattern != "":
		return p.defaultFormat.Pattern
	default:
		return p.engine.DefaultFormat()
	}
}

func (p *Presenter) resolveLocale(locale string) string {
	switch {
	case locale != "":
		return locale
	case p.adopted.Paired && p.adopted.Locale != "":
		return p.adopted.Locale
	case p.defaultFormat.Paired && p.defaultFormat.Locale != "":
		return p.defaultFormat.Locale
	case p.useSession && p.sessionLocale != "":
		return p.sessionLocale
	default:
		return p.locale
	}
}
