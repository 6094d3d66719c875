package config

const (
	// Timezone Defaults
	DefaultStorageTimezone = "UTC"
	DefaultDisplayTimezone = ""
	DefaultFormat          = "yyyy-MM-dd HH:mm:ss"
	DefaultLocale          = "en"

	// Cache Defaults
	CacheBackendMemory    = "memory"
	CacheBackendRedis     = "redis"
	DefaultCacheBackend   = CacheBackendMemory
	DefaultCatalogTTLSecs = 360

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Server Defaults
	DefaultServerAddr    = ":8080"
	DefaultSessionHeader = "X-Timezone"
	DefaultSessionCookie = "timezone"
	DefaultLocaleHeader  = "Accept-Language"

	// Store Defaults
	DefaultStoreSQLiteDBPath = "database/records.db"

	// ConfigPathEnv names the environment variable holding the config file path.
	ConfigPathEnv = "ZONESHIFT_CONFIG_PATH"

	maxConfigFileSize = 10 * 1024 * 1024
)
