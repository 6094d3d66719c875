package config

import (
	"testing"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GlobalConfig)
		field  string
	}{
		{name: "unknown storage timezone", mutate: func(c *GlobalConfig) { c.TimezoneConfig.StorageTimezone = "Mars/Olympus" }, field: "TimezoneConfig.StorageTimezone"},
		{name: "missing storage timezone", mutate: func(c *GlobalConfig) { c.TimezoneConfig.StorageTimezone = "" }, field: "TimezoneConfig.StorageTimezone"},
		{name: "unknown display timezone", mutate: func(c *GlobalConfig) { c.TimezoneConfig.DisplayTimezone = "Nowhere" }, field: "TimezoneConfig.DisplayTimezone"},
		{name: "unsupported locale", mutate: func(c *GlobalConfig) { c.TimezoneConfig.Locale = "!!" }, field: "TimezoneConfig.Locale"},
		{name: "empty format", mutate: func(c *GlobalConfig) { c.TimezoneConfig.Format = "" }, field: "TimezoneConfig.Format"},
		{name: "bad cache backend", mutate: func(c *GlobalConfig) { c.CacheConfig.Backend = "memcached" }, field: "CacheConfig.Backend"},
		{name: "redis without url", mutate: func(c *GlobalConfig) { c.CacheConfig.Backend = "redis" }, field: "CacheConfig.RedisURL"},
		{name: "negative ttl", mutate: func(c *GlobalConfig) { c.CacheConfig.CatalogTTLSecs = -1 }, field: "CacheConfig.CatalogTTLSecs"},
		{name: "bad log level", mutate: func(c *GlobalConfig) { c.LogConfig.LogLevel = "verbose" }, field: "LogConfig.LogLevel"},
		{name: "bad log format", mutate: func(c *GlobalConfig) { c.LogConfig.LogFormat = "xml" }, field: "LogConfig.LogFormat"},
		{name: "missing addr", mutate: func(c *GlobalConfig) { c.ServerConfig.Addr = "" }, field: "ServerConfig.Addr"},
		{name: "missing db path", mutate: func(c *GlobalConfig) { c.StoreConfig.SQLiteDBPath = "" }, field: "StoreConfig.SQLiteDBPath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			assert.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), "'"+tt.field+"'")
		})
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.TimezoneConfig.DisplayTimezone = "Europe/London"
	cfg.TimezoneConfig.Locale = "nl-NL"
	cfg.CacheConfig.Backend = "redis"
	cfg.CacheConfig.RedisURL = "redis://localhost:6379"
	cfg.LogConfig.LogLevel = "DEBUG"
	cfg.LogConfig.LogFormat = "json"

	assert.NoError(t, ValidateConfig(cfg))
}
