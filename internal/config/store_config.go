package config

// StoreConfig defines the SQLite record store
type StoreConfig struct {
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
}

// NewDefaultStoreConfig creates default store configuration
func NewDefaultStoreConfig() StoreConfig {
	return StoreConfig{
		SQLiteDBPath: DefaultStoreSQLiteDBPath,
	}
}
