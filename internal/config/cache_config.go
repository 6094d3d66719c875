package config

import "time"

// CacheConfig selects the backend holding the timezone catalog
type CacheConfig struct {
	Backend        string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,cachebackend"`
	RedisURL       string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" validate:"required_if=Backend redis"`
	CatalogTTLSecs int    `json:"catalog_ttl_secs,omitempty" yaml:"catalog_ttl_secs,omitempty" validate:"min=0"`
}

// NewDefaultCacheConfig creates default cache configuration
func NewDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Backend:        DefaultCacheBackend,
		CatalogTTLSecs: DefaultCatalogTTLSecs,
	}
}

// CatalogTTL returns the catalog lifetime, zero meaning the default
func (c CacheConfig) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLSecs) * time.Second
}
