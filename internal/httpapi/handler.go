// Package httpapi serves the conversion engine over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/metrics"
	"github.com/aleister1102/zoneshift/internal/presenter"
	"github.com/aleister1102/zoneshift/internal/shape"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// EngineSource returns the engine to serve a request with.
type EngineSource interface {
	Engine() *timezone.Engine
}

// Handler wires conversion endpoints to the engine.
type Handler struct {
	engines       EngineSource
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	sessionLocale bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records conversions in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithSessionLocale lets the request locale win over the engine locale.
func WithSessionLocale(enabled bool) Option {
	return func(h *Handler) {
		h.sessionLocale = enabled
	}
}

// New constructs a handler.
func New(engines EngineSource, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		engines: engines,
		logger:  logger.With().Str("component", "httpapi").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/timezones", h.HandleTimezones)
	r.Get("/timezone/current", h.HandleCurrentTimezone)
	r.Post("/convert/to-storage", h.HandleConvert(batch.ToStorage))
	r.Post("/convert/from-storage", h.HandleConvert(batch.FromStorage))
	r.Post("/convert/collection/{direction}", h.HandleCollection)
	r.Post("/classify", h.HandleClassify)
	r.Post("/present", h.HandlePresent)
}

// engine resolves the session engine for r.
func (h *Handler) engine(r *http.Request) (*timezone.Engine, error) {
	e, err := h.engines.Engine().ForContext(r.Context())
	if err != nil {
		return nil, err
	}
	if h.sessionLocale {
		if locale := timezone.SessionLocaleFrom(r.Context()); locale != "" {
			e = e.WithLocale(locale)
		}
	}
	return e, nil
}

// HandleTimezones handles GET /timezones.
func (h *Handler) HandleTimezones(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engines.Engine().Timezones(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list timezones")
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// HandleCurrentTimezone handles GET /timezone/current.
func (h *Handler) HandleCurrentTimezone(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, CurrentTimezoneResponse{
		Timezone:        e.CurrentTimezone(),
		StorageTimezone: e.StorageTimezone(),
		Locale:          e.Locale(),
	})
}

// HandleConvert handles POST /convert/to-storage and /convert/from-storage.
func (h *Handler) HandleConvert(direction batch.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp, err := h.convert(r, direction)
		if h.metrics != nil {
			h.metrics.ObserveConversion(direction.String(), start, err)
		}
		if err != nil {
			h.logger.Debug().Err(err).Str("direction", direction.String()).Msg("Conversion failed")
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) convert(r *http.Request, direction batch.Direction) (*ConvertResponse, error) {
	req, err := decode[ConvertRequest](r)
	if err != nil {
		return nil, err
	}
	value, err := decodeValue(req.Value)
	if err != nil {
		return nil, err
	}
	e, err := h.engine(r)
	if err != nil {
		return nil, err
	}

	var m timezone.Moment
	if direction == batch.FromStorage {
		m, err = e.ConvertFromStorage(value, req.Timezone, req.Format)
	} else {
		m, err = e.ConvertToStorage(value, req.Timezone, req.Format)
	}
	if err != nil {
		return nil, err
	}

	rendered, err := e.Render(m, req.Format)
	if err != nil {
		return nil, err
	}
	return &ConvertResponse{
		Value:    rendered,
		Timezone: m.Timezone(),
		Instant:  m.Time().Format(time.RFC3339Nano),
	}, nil
}

// HandleCollection handles POST /convert/collection/{direction}.
func (h *Handler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	direction, err := batch.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		WriteError(w, err)
		return
	}
	req, err := decode[CollectionRequest](r)
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.engine(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var opts []batch.Option
	if h.metrics != nil {
		opts = append(opts, batch.WithObserver(h.metrics))
	}
	conv := batch.NewConverter(e, h.logger, opts...)

	out, report, err := conv.Convert(r.Context(), req.Records, batch.Request{
		Direction: direction,
		Fields:    req.Fields,
		Format:    req.Format,
		Timezone:  req.Timezone,
		Partial:   req.Partial,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := CollectionResponse{Records: out, Converted: report.Converted}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, CollectionFailure{Index: f.Index, Field: f.Field, Error: f.Err.Error()})
	}
	WriteJSON(w, http.StatusOK, resp)
}

// HandleClassify handles POST /classify.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	req, err := decode[ClassifyRequest](r)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ClassifyResponse{Value: req.Value, Shape: shape.Classify(req.Value).String()})
}

// HandlePresent handles POST /present.
func (h *Handler) HandlePresent(w http.ResponseWriter, r *http.Request) {
	req, err := decode[PresentRequest](r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.Record == nil {
		WriteError(w, badRequest("record is required"))
		return
	}
	e, err := h.engine(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	bindings := presenter.Bindings{}
	for field, spec := range req.Bindings {
		if err := bindings.Bind(field, spec); err != nil {
			WriteError(w, err)
			return
		}
	}
	p := presenter.New(e, req.Record, bindings)

	if len(req.Assign) > 0 {
		value, err := decodeValue(req.Assign)
		if err == nil {
			_, err = p.Assign(req.Field, value)
		}
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, PresentResponse{Record: req.Record})
		return
	}

	if _, err := p.Select(req.Field); err != nil {
		WriteError(w, err)
		return
	}
	value, err := p.Display(req.Format, req.Locale, req.Timezone)
	if err != nil {
		if errors.Is(err, timezone.ErrParse) {
			h.logger.Debug().Err(err).Str("field", req.Field).Msg("Stored value could not be displayed")
		}
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, PresentResponse{Value: value})
}
