package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/timezone"
)

const maxBodyBytes = 1 << 20

// ConvertRequest is the body of POST /convert/to-storage and /convert/from-storage.
type ConvertRequest struct {
	Value    json.RawMessage     `json:"value"`
	Timezone string              `json:"timezone,omitempty"`
	Format   timezone.FormatSpec `json:"format,omitempty"`
}

// ConvertResponse carries the rendered value and the instant it denotes.
type ConvertResponse struct {
	Value    string `json:"value"`
	Timezone string `json:"timezone"`
	Instant  string `json:"instant"`
}

// CollectionRequest is the body of POST /convert/collection/{direction}.
type CollectionRequest struct {
	Records  []*batch.MapRecord  `json:"records"`
	Fields   []string            `json:"fields,omitempty"`
	Format   timezone.FormatSpec `json:"format,omitempty"`
	Timezone string              `json:"timezone,omitempty"`
	Partial  bool                `json:"partial,omitempty"`
}

// CollectionFailure locates a record left unconverted in partial mode.
type CollectionFailure struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Error string `json:"error"`
}

// CollectionResponse returns the converted records.
type CollectionResponse struct {
	Records   []batch.Record      `json:"records"`
	Converted int                 `json:"converted"`
	Failures  []CollectionFailure `json:"failures,omitempty"`
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Value string `json:"value"`
}

// ClassifyResponse names the value's shape.
type ClassifyResponse struct {
	Value string `json:"value"`
	Shape string `json:"shape"`
}

// PresentRequest drives a presenter over one record. With Assign set the
// value is written to Field; otherwise Field is displayed.
type PresentRequest struct {
	Record   *batch.MapRecord               `json:"record"`
	Bindings map[string]timezone.FormatSpec `json:"bindings"`
	Field    string                         `json:"field"`
	Format   string                         `json:"format,omitempty"`
	Locale   string                         `json:"locale,omitempty"`
	Timezone string                         `json:"timezone,omitempty"`
	Assign   json.RawMessage                `json:"assign,omitempty"`
}

// PresentResponse carries the displayed value or the updated record.
type PresentResponse struct {
	Value  string       `json:"value,omitempty"`
	Record batch.Record `json:"record,omitempty"`
}

// CurrentTimezoneResponse is returned by GET /timezone/current.
type CurrentTimezoneResponse struct {
	Timezone        string `json:"timezone"`
	StorageTimezone string `json:"storage_timezone"`
	Locale          string `json:"locale"`
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, badRequest("invalid request body: " + err.Error())
	}
	return v, nil
}

// decodeValue turns a JSON value into what the engine accepts: strings
// stay strings and integral numbers become int64 epochs.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, badRequest("value is required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, badRequest("invalid value: " + err.Error())
	}
	switch x := v.(type) {
	case string, nil:
		return x, nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return nil, timezone.NewInvalidArgument("value", "epoch must be an integer number of seconds")
		}
		return n, nil
	default:
		return nil, timezone.NewInvalidArgument("value", "expected a string or an integer")
	}
}
