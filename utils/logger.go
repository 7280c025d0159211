package utils

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. It is created once in main and
// passed explicitly to every component; packages hold no logger state of
// their own.
func NewLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// NewSilentLogger returns a logger that discards everything. Used by tests.
func NewSilentLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
