package presenter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField matches every *UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")
	// ErrNoActiveField is returned by Display before any Select.
	ErrNoActiveField = errors.New("please specify a property before attempting to convert it")
)

// UnknownFieldError reports a field that has no binding.
type UnknownFieldError struct {
	Field  string
	Record string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("property %s not found in %s bindings", e.Field, e.Record)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}
