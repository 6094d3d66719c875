package config

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ZONESHIFT"

// Override keys. Each is read from ZONESHIFT_<KEY> or from a flag bound to
// the same key on the viper instance.
const (
	KeyParseUKDates    = "parse_uk_dates"
	KeyDisplayTimezone = "display_timezone"
	KeyStorageTimezone = "storage_timezone"
	KeyFormat          = "format"
	KeyLocale          = "locale"
	KeyLogLevel        = "log_level"
	KeyCacheBackend    = "cache_backend"
	KeyRedisURL        = "redis_url"
	KeyServerAddr      = "addr"
)

// NewViper returns a viper instance reading ZONESHIFT_* variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		KeyParseUKDates, KeyDisplayTimezone, KeyStorageTimezone, KeyFormat, KeyLocale,
		KeyLogLevel, KeyCacheBackend, KeyRedisURL, KeyServerAddr,
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyOverrides copies every key set on v into cfg. Keys left unset keep
// the file or default value.
func ApplyOverrides(cfg *GlobalConfig, v *viper.Viper) {
	if v == nil {
		return
	}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := v.GetString(key); s != "" {
				*dst = s
			}
		}
	}

	if v.IsSet(KeyParseUKDates) {
		cfg.TimezoneConfig.ParseUKDates = v.GetBool(KeyParseUKDates)
	}
	setString(KeyDisplayTimezone, &cfg.TimezoneConfig.DisplayTimezone)
	setString(KeyStorageTimezone, &cfg.TimezoneConfig.StorageTimezone)
	setString(KeyFormat, &cfg.TimezoneConfig.Format)
	setString(KeyLocale, &cfg.TimezoneConfig.Locale)
	setString(KeyLogLevel, &cfg.LogConfig.LogLevel)
	setString(KeyCacheBackend, &cfg.CacheConfig.Backend)
	setString(KeyRedisURL, &cfg.CacheConfig.RedisURL)
	setString(KeyServerAddr, &cfg.ServerConfig.Addr)
}

// Load reads the config file at path (or the default locations), applies
// v's overrides and validates the result.
func Load(path string, v *viper.Viper, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg, err := LoadGlobalConfig(path, logger)
	if err != nil {
		return nil, err
	}
	ApplyOverrides(cfg, v)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
