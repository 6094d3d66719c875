package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/pattern"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	timezone.RegisterValidations(validate)

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("cachebackend", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", CacheBackendMemory, CacheBackendRedis:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		tag := fl.Field().String()
		if tag == "" {
			return true
		}
		_, ok := pattern.ResolveLocale(tag)
		return ok
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	var validationErrorMessages []string
	for _, e := range errs {
		fieldName := strings.TrimPrefix(e.StructNamespace(), "GlobalConfig.")
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		validationErrorMessages = append(validationErrorMessages, msg)
	}
	return &ValidationErrors{Messages: validationErrorMessages}
}

// ValidationErrors lists every rule a configuration broke.
type ValidationErrors struct {
	Messages []string
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  %s", strings.Join(e.Messages, "\n  "))
}

func (e *ValidationErrors) Unwrap() error {
	return common.ErrInvalidConfiguration
}
