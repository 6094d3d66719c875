// Package batch applies timezone conversion across collections of records.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/rs/zerolog"
)

// Direction selects which way values are converted.
type Direction int

const (
	ToStorage Direction = iota
	FromStorage
)

func (d Direction) String() string {
	if d == FromStorage {
		return "from_storage"
	}
	return "to_storage"
}

// ParseDirection reads "to-storage"/"to_storage" and "from-storage"/"from_storage".
func ParseDirection(s string) (Direction, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "to_storage", "to":
		return ToStorage, nil
	case "from_storage", "from":
		return FromStorage, nil
	}
	return 0, timezone.NewInvalidArgument("direction", fmt.Sprintf("unknown direction %q", s))
}

// Observer is notified once per converted field.
type Observer interface {
	ObserveField(direction string, err error)
}

// FieldError locates a failed conversion.
type FieldError struct {
	Index  int
	Record string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("record %d (%s) field %q: %v", e.Index, e.Record, e.Field, e.Err)
	}
	return fmt.Sprintf("record %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Report describes a partial conversion. Failed records are left untouched.
type Report struct {
	Converted int
	Failures  []*FieldError
}

// Err combines the failures, or returns nil.
func (r *Report) Err() error {
	var ec common.ErrorCollector
	for _, f := range r.Failures {
		ec.Add(f)
	}
	return ec.Error()
}

// Request is one collection conversion.
type Request struct {
	Direction Direction
	Fields    []string
	// Format is nil, a pattern string, or a [pattern, locale] pair.
	Format   any
	Timezone string
	// Partial converts every record it can instead of stopping at the first
	// failure.
	Partial bool
}

// Converter runs collection conversions through an engine.
type Converter struct {
	engine   *timezone.Engine
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Converter.
type Option func(*Converter)

// WithObserver reports each field conversion to o.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		c.observer = o
	}
}

// NewConverter builds a Converter over engine.
func NewConverter(engine *timezone.Engine, logger zerolog.Logger, opts ...Option) *Converter {
	c := &Converter{
		engine: engine,
		logger: logger.With().Str("component", "batch").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertToStorage converts fields of every record from timezone (display
// timezone when empty) to storage, failing on the first bad value.
func (c *Converter) ConvertToStorage(ctx context.Context, records any, fields []string, format any, tz string) (Collection, error) {
	out, _, err := c.Convert(ctx, records, Request{Direction: ToStorage, Fields: fields, Format: format, Timezone: tz})
	return out, err
}

// ConvertFromStorage converts fields of every record from storage to
// timezone (display timezone when empty), failing on the first bad value.
func (c *Converter) ConvertFromStorage(ctx context.Context, records any, fields []string, format any, tz string) (Collection, error) {
	out, _, err := c.Convert(ctx, records, Request{Direction: FromStorage, Fields: fields, Format: format, Timezone: tz})
	return out, err
}

type pendingWrite struct {
	field string
	value any
	prev  any
}

// Convert validates the request, then converts record by record. In
// fail-fast mode nothing is written unless every field converts; in partial
// mode each record is written only if all of its fields convert.
func (c *Converter) Convert(ctx context.Context, records any, req Request) (Collection, *Report, error) {
	coll, err := AsCollection(records)
	if err != nil {
		return nil, nil, err
	}
	spec, err := timezone.ParseFormat(req.Format)
	if err != nil {
		return nil, nil, err
	}
	if req.Timezone == "" {
		req.Timezone = c.engine.CurrentTimezone()
	} else if _, err := timezone.LoadLocation(req.Timezone); err != nil {
		return nil, nil, err
	}

	report := &Report{}
	staged := make([][]pendingWrite, len(coll))

	for i, rec := range coll {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		writes, ferr := c.convertRecord(i, rec, req, spec)
		if ferr != nil {
			if !req.Partial {
				c.logger.Error().Err(ferr).Int("record", i).Str("field", ferr.Field).Msg("Collection conversion aborted")
				return nil, report, ferr
			}
			c.logger.Warn().Err(ferr).Int("record", i).Str("field", ferr.Field).Msg("Skipping record")
			report.Failures = append(report.Failures, ferr)
			continue
		}
		staged[i] = writes
	}

	for i, writes := range staged {
		if writes == nil {
			continue
		}
		if field, err := apply(coll[i], writes); err != nil {
			ferr := &FieldError{Index: i, Record: recordName(coll[i]), Field: field, Err: err}
			if !req.Partial {
				for k := i - 1; k >= 0; k-- {
					restore(coll[k], staged[k])
				}
				c.logger.Error().Err(ferr).Int("record", i).Str("field", field).Msg("Collection conversion aborted")
				return nil, report, ferr
			}
			c.logger.Warn().Err(ferr).Int("record", i).Str("field", field).Msg("Skipping record")
			report.Failures = append(report.Failures, ferr)
			continue
		}
		report.Converted++
	}

	c.logger.Debug().
		Str("direction", req.Direction.String()).
		Int("records", len(coll)).
		Int("converted", report.Converted).
		Int("failed", len(report.Failures)).
		Msg("Collection converted")
	return coll, report, nil
}

func (c *Converter) convertRecord(i int, rec Record, req Request, spec timezone.FormatSpec) ([]pendingWrite, *FieldError) {
	writes := []pendingWrite{}
	for _, field := range workingFields(rec, req.Fields) {
		value, ok := rec.Get(field)
		if !ok || isBlank(value) {
			continue
		}

		m, rendered, err := c.convertValue(value, req, spec)
		if err == nil {
			out := WriteBackValue(rec, field, m, rendered)
			if sc, ok := rec.(SetChecker); ok {
				err = sc.CheckSet(field, out)
			}
			writes = append(writes, pendingWrite{field: field, value: out, prev: value})
		}
		if c.observer != nil {
			c.observer.ObserveField(req.Direction.String(), err)
		}
		if err != nil {
			return nil, &FieldError{Index: i, Record: recordName(rec), Field: field, Err: err}
		}
	}
	return writes, nil
}

func (c *Converter) convertValue(value any, req Request, spec timezone.FormatSpec) (timezone.Moment, string, error) {
	var (
		m   timezone.Moment
		err error
	)
	if req.Direction == FromStorage {
		m, err = c.engine.FromStorage(value, req.Timezone, timezone.WithFormat(spec))
	} else {
		m, err = c.engine.ToStorage(value, req.Timezone, timezone.WithFormat(spec))
	}
	if err != nil {
		return m, "", err
	}
	rendered, err := c.engine.Render(m, spec)
	return m, rendered, err
}

// WriteBackValue picks what gets written to field after a conversion: the
// re-anchored time when the record types the field as a time, the rendered
// text otherwise.
func WriteBackValue(rec Record, field string, m timezone.Moment, rendered string) any {
	if th, ok := rec.(TimeHolder); ok && th.HoldsTime(field) {
		return m.Time()
	}
	return rendered
}

// apply writes every staged value to rec. On failure the values already
// written are restored and the failing field is returned.
func apply(rec Record, writes []pendingWrite) (string, error) {
	for j, w := range writes {
		if err := rec.Set(w.field, w.value); err != nil {
			restore(rec, writes[:j])
			return w.field, err
		}
	}
	return "", nil
}

func restore(rec Record, writes []pendingWrite) {
	for j := len(writes) - 1; j >= 0; j-- {
		_ = rec.Set(writes[j].field, writes[j].prev)
	}
}
