package logger

import (
	"bytes"
	"encoding/json"
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prev)
		stdlog.SetOutput(os.Stderr)
	})

	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestBuild_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"

	l, err := NewBuilder().WithConfig(cfg).WithConsole(&buf).WithoutGlobals().Build()
	require.NoError(t, err)
	l.Debug().Str("timezone", "Europe/London").Msg("converted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "zoneshift", line["service"])
	assert.Equal(t, "Europe/London", line["timezone"])
	assert.Equal(t, "converted", line["message"])
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"

	b := NewBuilder().WithConfig(cfg).WithConsole(&buf).WithoutGlobals()
	l, err := b.Build()
	require.NoError(t, err)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, zerolog.WarnLevel, b.Config().Level)
}

func TestBuild_InvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "loud"

	_, err := NewBuilder().WithConfig(cfg).WithConsole(&bytes.Buffer{}).WithoutGlobals().Build()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestBuild_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zoneshift.log")
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = path
	cfg.LogFormat = "json"

	l, err := NewBuilder().WithConfig(cfg).WithConsole(&bytes.Buffer{}).WithoutGlobals().Build()
	require.NoError(t, err)
	l.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestFromLogConfig(t *testing.T) {
	lc, err := FromLogConfig(config.LogConfig{LogLevel: "loud", LogFormat: "xml"})
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, lc.Level)
	assert.Equal(t, FormatConsole, lc.Format)
	assert.Equal(t, config.DefaultMaxLogSizeMB, lc.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, lc.MaxBackups)
	assert.Empty(t, lc.FilePath)

	lc, err = FromLogConfig(config.LogConfig{LogLevel: "ERROR", LogFormat: "JSON", LogFile: "x.log", MaxLogSizeMB: 5})
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, lc.Level)
	assert.Equal(t, FormatJSON, lc.Format)
	assert.Equal(t, "x.log", lc.FilePath)
	assert.Equal(t, 5, lc.MaxSizeMB)
}

func TestLogFormat(t *testing.T) {
	tests := []struct {
		in   string
		want LogFormat
	}{
		{"json", FormatJSON},
		{" Text ", FormatText},
		{"console", FormatConsole},
		{"", FormatConsole},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := ParseFormat(tt.in)
			assert.Equal(t, tt.want, f)
		})
	}
	assert.Equal(t, "console", LogFormat(42).String())
	assert.Equal(t, "json", FormatJSON.String())
}
