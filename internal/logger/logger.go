// Package logger builds the application's zerolog logger from config.LogConfig.
package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/zoneshift/internal/common"
	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/rs/zerolog"
)

// Builder assembles a zerolog.Logger writing to the console and, when a
// log file is configured, to a rotated file.
type Builder struct {
	cfg     LoggerConfig
	cfgErr  error
	globals bool
}

// NewBuilder starts from the default log config.
func NewBuilder() *Builder {
	b := &Builder{globals: true}
	return b.WithConfig(config.NewDefaultLogConfig())
}

// WithConfig replaces the configuration. An invalid level is reported by Build.
func (b *Builder) WithConfig(cfg config.LogConfig) *Builder {
	b.cfg, b.cfgErr = FromLogConfig(cfg)
	return b
}

// WithConsole redirects console output to w.
func (b *Builder) WithConsole(w io.Writer) *Builder {
	b.cfg.Console = w
	return b
}

// WithoutGlobals leaves zerolog's global level and the standard log
// package untouched.
func (b *Builder) WithoutGlobals() *Builder {
	b.globals = false
	return b
}

// Config returns the resolved configuration.
func (b *Builder) Config() LoggerConfig {
	return b.cfg
}

// Build creates the logger.
func (b *Builder) Build() (zerolog.Logger, error) {
	if b.cfgErr != nil {
		return zerolog.Nop(), b.cfgErr
	}
	if b.cfg.MaxSizeMB <= 0 {
		return zerolog.Nop(), common.NewValidationError("max_log_size_mb", b.cfg.MaxSizeMB, "max size must be positive")
	}

	writers := []io.Writer{consoleWriter(b.cfg)}
	if b.cfg.FilePath != "" {
		fw, err := fileWriter(b.cfg)
		if err != nil {
			return zerolog.Nop(), common.WrapError(err, "failed to open log file")
		}
		writers = append(writers, fw)
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(b.cfg.Level).
		With().
		Timestamp().
		Str("service", b.cfg.Service).
		Logger()

	if b.globals {
		zerolog.SetGlobalLevel(b.cfg.Level)
		stdlog.SetOutput(l)
		stdlog.SetFlags(0)
	}
	return l, nil
}

// New builds the application logger from cfg.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewBuilder().WithConfig(cfg).Build()
}
