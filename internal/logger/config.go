package logger

import (
	"io"
	"strings"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/rs/zerolog"
)

// LogFormat selects how log lines are encoded.
type LogFormat int

const (
	FormatConsole LogFormat = iota
	FormatJSON
	FormatText
)

// String returns the config spelling of the format.
func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// ParseFormat maps a config value to a LogFormat. Unknown values read as console.
func ParseFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel maps a config value to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// LoggerConfig is the resolved form of config.LogConfig.
type LoggerConfig struct {
	Level      zerolog.Level
	Format     LogFormat
	Service    string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	// Console defaults to stderr so command output on stdout stays clean.
	Console io.Writer
}

// FromLogConfig resolves cfg. An unknown level falls back to info and the
// parse error is returned alongside the usable config.
func FromLogConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	lc := LoggerConfig{
		Level:      level,
		Format:     ParseFormat(cfg.LogFormat),
		Service:    "zoneshift",
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
	}
	if lc.MaxSizeMB <= 0 {
		lc.MaxSizeMB = config.DefaultMaxLogSizeMB
	}
	if lc.MaxBackups <= 0 {
		lc.MaxBackups = config.DefaultMaxLogBackups
	}
	return lc, err
}
