package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aleister1102/zoneshift/internal/app"
	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/aleister1102/zoneshift/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	overrides = config.NewViper()

	// Populated by loadRuntime before any subcommand runs.
	globalCfg *config.GlobalConfig
	appLogger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zoneshift",
	Short: "Timezone aware date and time conversion",
	Long: "zoneshift reads date and time values in a display timezone, stores them in a single\n" +
		"storage timezone and renders them back with CLDR patterns in any locale.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// overrideFlags maps persistent flag names to the config keys they override.
var overrideFlags = map[string]string{
	"display-timezone": config.KeyDisplayTimezone,
	"storage-timezone": config.KeyStorageTimezone,
	"format":           config.KeyFormat,
	"locale":           config.KeyLocale,
	"parse-uk-dates":   config.KeyParseUKDates,
	"log-level":        config.KeyLogLevel,
	"cache-backend":    config.KeyCacheBackend,
	"redis-url":        config.KeyRedisURL,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file, YAML or JSON (default: $"+config.ConfigPathEnv+" or ./config.yaml)")
	flags.String("display-timezone", "", "timezone values are displayed in")
	flags.String("storage-timezone", "", "timezone values are stored in")
	flags.String("format", "", "default CLDR pattern, e.g. \"yyyy-MM-dd HH:mm:ss\"")
	flags.String("locale", "", "default locale, e.g. en or nl_NL")
	flags.Bool("parse-uk-dates", false, "read dd/MM/yyyy instead of MM/dd/yyyy")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("cache-backend", "", "catalog cache backend (memory or redis)")
	flags.String("redis-url", "", "redis URL for the redis cache backend")

	for name, key := range overrideFlags {
		if err := overrides.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, overrides, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(cfg.LogConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	globalCfg = cfg
	appLogger = zl
	appLogger.Debug().Str("config", config.GetConfigPath(cfgFile)).Msg("Configuration loaded")
	return nil
}

func buildApp(cmd *cobra.Command) (*app.App, error) {
	return app.Build(cmd.Context(), globalCfg, app.Options{Logger: appLogger})
}

// argValue turns a command line argument into an engine input: integers
// are epoch seconds, anything else is a literal.
func argValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
