package timezone

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatSpec is a display format, optionally paired with a locale.
type FormatSpec struct {
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Locale  string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Paired  bool   `json:"-" yaml:"-"`
}

// Format builds an unpaired spec.
func Format(pattern string) FormatSpec {
	return FormatSpec{Pattern: pattern}
}

// FormatWithLocale builds a paired spec.
func FormatWithLocale(pattern, locale string) FormatSpec {
	return FormatSpec{Pattern: pattern, Locale: locale, Paired: true}
}

// IsZero reports whether no pattern was given.
func (f FormatSpec) IsZero() bool {
	return f.Pattern == "" && !f.Paired
}

// ParseFormat decodes a format argument: nil, a pattern string, or a
// [pattern, locale] pair of exactly two strings.
func ParseFormat(v any) (FormatSpec, error) {
	switch val := v.(type) {
	case nil:
		return FormatSpec{}, nil
	case FormatSpec:
		return val, nil
	case *FormatSpec:
		if val == nil {
			return FormatSpec{}, nil
		}
		return *val, nil
	case string:
		return FormatSpec{Pattern: val}, nil
	case [2]string:
		return FormatWithLocale(val[0], val[1]), nil
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return parsePair(items)
	case []any:
		return parsePair(val)
	}
	return FormatSpec{}, NewInvalidArgument("format", fmt.Sprintf("unsupported type %T", v))
}

func parsePair(items []any) (FormatSpec, error) {
	if len(items) != 2 {
		return FormatSpec{}, NewInvalidArgument("format",
			fmt.Sprintf("array format must be [format, locale], got %d elements", len(items)))
	}
	layout, ok := items[0].(string)
	if !ok {
		return FormatSpec{}, NewInvalidArgument("format", "format element must be a string")
	}
	locale, ok := items[1].(string)
	if !ok {
		return FormatSpec{}, NewInvalidArgument("format", "locale element must be a string")
	}
	return FormatWithLocale(layout, locale), nil
}

// UnmarshalJSON accepts "pattern", ["pattern", "locale"] or an object.
func (f *FormatSpec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if obj, ok := raw.(map[string]any); ok {
		layout, _ := obj["pattern"].(string)
		locale, _ := obj["locale"].(string)
		*f = FormatSpec{Pattern: layout, Locale: locale, Paired: locale != ""}
		return nil
	}
	spec, err := ParseFormat(raw)
	if err != nil {
		return err
	}
	*f = spec
	return nil
}

// MarshalJSON writes the compact form ParseFormat reads back.
func (f FormatSpec) MarshalJSON() ([]byte, error) {
	if f.Paired {
		return json.Marshal([]string{f.Pattern, f.Locale})
	}
	if f.Pattern == "" {
		return []byte("null"), nil
	}
	return json.Marshal(f.Pattern)
}

// FieldOverride binds a field to a display format and optional timezone.
type FieldOverride struct {
	Field    string     `json:"field" validate:"required"`
	Format   FormatSpec `json:"format"`
	Timezone string     `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

var overrideValidator = func() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}()

// Validate checks the override's field name and timezone.
func (o FieldOverride) Validate() error {
	if err := overrideValidator.Struct(o); err != nil {
		return NewInvalidArgument("override "+o.Field, err.Error())
	}
	return nil
}

// RegisterValidations adds the "timezone" tag to v.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		if name == "" {
			return true
		}
		return IsValid(name)
	})
}
