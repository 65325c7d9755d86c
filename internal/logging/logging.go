// Package logging builds the zerolog loggers used by the CLI and the HTTP
// server and bridges them to the engine's Logger interface.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level. Console output is
// human readable; otherwise one JSON object per line.
func New(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// EngineLogger adapts a zerolog.Logger to calculation.Logger
type EngineLogger struct {
	Logger zerolog.Logger
}

func (l EngineLogger) Debugf(format string, args ...any) { l.Logger.Debug().Msgf(format, args...) }
func (l EngineLogger) Infof(format string, args ...any)  { l.Logger.Info().Msgf(format, args...) }
func (l EngineLogger) Warnf(format string, args ...any)  { l.Logger.Warn().Msgf(format, args...) }
func (l EngineLogger) Errorf(format string, args ...any) { l.Logger.Error().Msgf(format, args...) }
