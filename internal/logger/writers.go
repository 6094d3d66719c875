package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// encode wraps out in the line encoding for format. Files never get color
// codes.
func encode(format LogFormat, out io.Writer, colored bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatText:
		colored = false
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !colored,
	}
}

func consoleWriter(cfg LoggerConfig) io.Writer {
	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}
	return encode(cfg.Format, out, true)
}

// fileWriter opens a size-rotated log file, creating its directory.
func fileWriter(cfg LoggerConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}
	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	return encode(cfg.Format, rotated, false), nil
}
