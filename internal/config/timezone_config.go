package config

// TimezoneConfig defines the zones, default format and locale of the engine
type TimezoneConfig struct {
	StorageTimezone string `json:"storage_timezone,omitempty" yaml:"storage_timezone,omitempty" validate:"required,timezone"`
	DisplayTimezone string `json:"display_timezone,omitempty" yaml:"display_timezone,omitempty" validate:"omitempty,timezone"`
	Format          string `json:"format,omitempty" yaml:"format,omitempty" validate:"required"`
	Locale          string `json:"locale,omitempty" yaml:"locale,omitempty" validate:"omitempty,locale"`
	ParseUKDates    bool   `json:"parse_uk_dates,omitempty" yaml:"parse_uk_dates,omitempty"`
	// SessionLocale lets a per-request locale win over Locale
	SessionLocale bool `json:"session_locale,omitempty" yaml:"session_locale,omitempty"`
}

// NewDefaultTimezoneConfig creates default timezone configuration
func NewDefaultTimezoneConfig() TimezoneConfig {
	return TimezoneConfig{
		StorageTimezone: DefaultStorageTimezone,
		DisplayTimezone: DefaultDisplayTimezone,
		Format:          DefaultFormat,
		Locale:          DefaultLocale,
	}
}

// EffectiveDisplayTimezone falls back to the storage timezone
func (c TimezoneConfig) EffectiveDisplayTimezone() string {
	if c.DisplayTimezone != "" {
		return c.DisplayTimezone
	}
	return c.StorageTimezone
}
