package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aleister1102/zoneshift/internal/presenter"
	"github.com/aleister1102/zoneshift/internal/timezone"
)

// Error codes returned in the "error" field of failed responses.
const (
	CodeBadRequest      = "bad_request"
	CodeParseError      = "parse_error"
	CodeInvalidArgument = "invalid_argument"
	CodeUnknownTimezone = "unknown_timezone"
	CodeUnknownField    = "unknown_field"
	CodeUnavailable     = "unavailable"
	CodeInternal        = "internal_error"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and code. Internal errors omit their
// description.
func WriteError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := errorResponse{Error: code}
	if status != http.StatusInternalServerError {
		resp.ErrorDescription = err.Error()
	}
	WriteJSON(w, status, resp)
}

func classify(err error) (int, string) {
	var badRequest *requestError
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, timezone.ErrParse):
		return http.StatusUnprocessableEntity, CodeParseError
	case errors.Is(err, timezone.ErrUnknownTimezone):
		return http.StatusBadRequest, CodeUnknownTimezone
	case errors.Is(err, timezone.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, presenter.ErrUnknownField), errors.Is(err, presenter.ErrNoActiveField):
		return http.StatusBadRequest, CodeUnknownField
	case errors.Is(err, timezone.ErrNoCatalog):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// requestError marks a malformed request body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}
