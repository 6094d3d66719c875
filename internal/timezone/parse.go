package timezone

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/pattern"
	"github.com/aleister1102/zoneshift/internal/shape"
)

// DateValue is a host date/time type that can render itself canonically
// ("2006-01-02 15:04:05" with an optional fraction).
type DateValue interface {
	DateString() string
}

// ParseOption tunes a single conversion.
type ParseOption func(*parseConfig)

type parseConfig struct {
	format FormatSpec
}

func newParseConfig(opts []ParseOption) parseConfig {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFormat supplies the pattern and locale a value was rendered with, so
// literals such as "woensdag 25 juli 2018" can be read back.
func WithFormat(format FormatSpec) ParseOption {
	return func(c *parseConfig) {
		c.format = format
	}
}

var parseLayouts = []string{
	timeutils.LayoutDateTime,
	timeutils.LayoutDateTimeISO,
	time.RFC3339Nano,
	"2006-01-02 15:04",
	timeutils.LayoutDateOnly,
	timeutils.LayoutDayFirstDateTime,
	"02-01-2006 15:04",
	timeutils.LayoutDayFirstDate,
	timeutils.LayoutUSDateTime,
	"01/02/2006 15:04",
	timeutils.LayoutUSDate,
	timeutils.LayoutTimeOnly,
	timeutils.LayoutTimeShort,
}

var timeOnlyLayouts = map[string]bool{
	timeutils.LayoutTimeOnly:  true,
	timeutils.LayoutTimeShort: true,
}

// createDate normalizes raw to a string, picks the zone to read it in and
// parses it.
func (e *Engine) createDate(raw any, loc *time.Location, cfg parseConfig) (Moment, error) {
	literal, value, err := e.normalize(raw)
	if err != nil {
		return Moment{}, err
	}
	if isEpoch(raw) {
		loc = e.storage
	}

	if e.ukDates {
		value = strings.ReplaceAll(value, "/", "-")
	}

	if !shape.IsTimestamp(value) && loc != e.storage {
		e.logger.Debug().Str("value", literal).Str("requested", loc.String()).Msg("Value has no time of day and zone, reading it in storage timezone")
		loc = e.storage
	}

	t, err := e.parseIn(value, loc)
	if err != nil && cfg.format.Pattern != "" {
		t, err = pattern.ParseInLocation(cfg.format.Pattern, literal, loc, cfg.format.Locale)
	}
	if err != nil {
		return Moment{}, &ParseError{Raw: literal, Err: err}
	}
	return e.moment(t), nil
}

// normalize returns the original literal for diagnostics and the string
// handed to the parser.
func (e *Engine) normalize(raw any) (string, string, error) {
	switch v := raw.(type) {
	case string:
		return v, strings.TrimSpace(v), nil
	case time.Time:
		s := canonical(v)
		return s, s, nil
	case *time.Time:
		if v == nil {
			return "", "", NewInvalidArgument("value", "nil time")
		}
		s := canonical(*v)
		return s, s, nil
	case DateValue:
		s := v.DateString()
		return s, s, nil
	}

	if sec, ok := epochSeconds(raw); ok {
		s := time.Unix(sec, 0).In(e.storage).Format(timeutils.LayoutDateTime)
		return fmt.Sprint(raw), s, nil
	}
	if isUnsigned(raw) {
		return "", "", NewInvalidArgument("value", fmt.Sprintf("epoch %v overflows int64", raw))
	}
	if raw == nil {
		return "", "", NewInvalidArgument("value", "nil value")
	}
	return "", "", NewInvalidArgument("value", fmt.Sprintf("unsupported type %T", raw))
}

func (e *Engine) parseIn(value string, loc *time.Location) (time.Time, error) {
	var firstErr error
	for _, layout := range parseLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if timeOnlyLayouts[layout] {
			today := e.clock.Now().In(loc)
			t = time.Date(today.Year(), today.Month(), today.Day(),
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		}
		return t, nil
	}
	return time.Time{}, firstErr
}

// carriesTimezone reports whether raw may be shifted out of the storage
// timezone: epochs, host date values and timestamp shaped strings.
func carriesTimezone(raw any) bool {
	switch v := raw.(type) {
	case string:
		return shape.IsTimestamp(v)
	case time.Time, *time.Time, DateValue:
		return true
	}
	return isEpoch(raw)
}

func isEpoch(raw any) bool {
	_, ok := epochSeconds(raw)
	return ok
}

func epochSeconds(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	}
	return 0, false
}

func isUnsigned(raw any) bool {
	switch raw.(type) {
	case uint, uint64:
		return true
	}
	return false
}

// IsTimestamp reports whether v carries both a date and a time.
func (e *Engine) IsTimestamp(v string) bool { return shape.IsTimestamp(v) }

// IsTime reports whether v is a bare time of day.
func (e *Engine) IsTime(v string) bool { return shape.IsTime(v) }

// IsDate reports whether v is a bare calendar date.
func (e *Engine) IsDate(v string) bool { return shape.IsDate(v) }
