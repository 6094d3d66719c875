package timezone

import (
	"time"

	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/pattern"
)

// Moment is an instant anchored to one timezone and one locale. The zero
// value is not useful; Moments come from an Engine or NewMoment.
type Moment struct {
	t      time.Time
	locale string
	format string
}

// NewMoment anchors t in its own location. An empty format falls back to
// timeutils.DefaultPattern.
func NewMoment(t time.Time, locale, format string) Moment {
	if format == "" {
		format = timeutils.DefaultPattern
	}
	return Moment{t: t, locale: locale, format: format}
}

// Time returns the underlying instant in the Moment's timezone.
func (m Moment) Time() time.Time {
	return m.t
}

// Timezone returns the tz identifier the Moment is anchored to.
func (m Moment) Timezone() string {
	return m.t.Location().String()
}

// Locale returns the locale tag used by Format.
func (m Moment) Locale() string {
	return m.locale
}

// DefaultFormat returns the pattern used by FormatDefault.
func (m Moment) DefaultFormat() string {
	return m.format
}

// In re-expresses the same instant in another timezone.
func (m Moment) In(timezone string) (Moment, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Moment{}, err
	}
	return m.in(loc), nil
}

func (m Moment) in(loc *time.Location) Moment {
	m.t = m.t.In(loc)
	return m
}

// WithLocale returns a copy carrying another locale.
func (m Moment) WithLocale(locale string) Moment {
	m.locale = locale
	return m
}

// Format renders the Moment with a CLDR pattern in its own locale.
func (m Moment) Format(layout string) (string, error) {
	return pattern.Format(m.t, layout, m.locale)
}

// FormatToLocale renders with a locale that applies to this call only.
func (m Moment) FormatToLocale(layout, locale string) (string, error) {
	return m.WithLocale(locale).Format(layout)
}

// FormatDefault renders with the Moment's default format.
func (m Moment) FormatDefault() string {
	out, err := m.Format(m.format)
	if err != nil {
		return m.String()
	}
	return out
}

// Equal reports whether both Moments denote the same instant.
func (m Moment) Equal(other Moment) bool {
	return m.t.Equal(other.t)
}

// IsZero reports whether the Moment holds no instant.
func (m Moment) IsZero() bool {
	return m.t.IsZero()
}

// String renders the wall clock as "2006-01-02 15:04:05".
func (m Moment) String() string {
	return m.t.Format(timeutils.LayoutDateTime)
}

// DateString is the canonical host form, with microseconds when present.
func (m Moment) DateString() string {
	return canonical(m.t)
}

func canonical(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format(timeutils.LayoutDateTimeMicro)
	}
	return t.Format(timeutils.LayoutDateTime)
}
