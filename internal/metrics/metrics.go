// Package metrics exposes Prometheus instrumentation for conversions and
// the timezone catalog.
package metrics

import (
	"errors"
	"time"

	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeParseError = "parse_error"
	OutcomeInvalidArg = "invalid_argument"
	OutcomeOtherError = "error"
	labelDirection    = "direction"
	labelOutcome      = "outcome"
)

// Metrics tracks conversions, field conversions in collections and
// catalog rebuilds.
type Metrics struct {
	Conversions        *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	FieldConversions   *prometheus.CounterVec
	CatalogRebuilds    prometheus.Counter
	CatalogZones       prometheus.Gauge
	CatalogDuration    prometheus.Histogram
}

// New registers every metric with reg, the default registerer when nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoneshift_conversions_total",
			Help: "Total number of single value conversions by direction and outcome",
		}, []string{labelDirection, labelOutcome}),
		ConversionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zoneshift_conversion_duration_seconds",
			Help:    "Duration of single value conversions",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{labelDirection}),
		FieldConversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoneshift_field_conversions_total",
			Help: "Total number of record fields converted by collection conversions",
		}, []string{labelDirection, labelOutcome}),
		CatalogRebuilds: factory.NewCounter(prometheus.CounterOpts{
			Name: "zoneshift_catalog_rebuilds_total",
			Help: "Total number of timezone catalog rebuilds (cache misses)",
		}),
		CatalogZones: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zoneshift_catalog_zones",
			Help: "Number of zones in the last built catalog",
		}),
		CatalogDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zoneshift_catalog_rebuild_duration_seconds",
			Help:    "Duration of timezone catalog rebuilds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// Outcome maps a conversion error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, timezone.ErrParse):
		return OutcomeParseError
	case errors.Is(err, timezone.ErrInvalidArgument):
		return OutcomeInvalidArg
	default:
		return OutcomeOtherError
	}
}

// ObserveConversion records one single value conversion.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveConversion(direction string, start time.Time, err error) {
	m.Conversions.WithLabelValues(direction, Outcome(err)).Inc()
	m.ConversionDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
}

// ObserveField implements batch.Observer.
func (m *Metrics) ObserveField(direction string, err error) {
	m.FieldConversions.WithLabelValues(direction, Outcome(err)).Inc()
}

// ObserveCatalogRebuild matches catalog.Options.OnRebuild.
func (m *Metrics) ObserveCatalogRebuild(entries int, took time.Duration) {
	m.CatalogRebuilds.Inc()
	m.CatalogZones.Set(float64(entries))
	m.CatalogDuration.Observe(took.Seconds())
}
