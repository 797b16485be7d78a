// Package logger builds the process-wide zerolog loggers. The ledger core
// itself never logs; services and adapters receive a logger constructed
// here by value and attach their own context fields (account_id, actor).
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the logger the process runs with, writing JSON to stdout.
// With pretty set it switches to the human console format for local runs
// of the banking console.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout

	if pretty {
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// NewWithWriter builds a logger for an arbitrary writer. Tests hand it a
// buffer and assert on the emitted JSON; it skips the caller field so the
// output stays stable.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// parseLevel maps the config string to a zerolog level. Unknown values
// fall back to info rather than failing startup.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
