// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the default logger. Console output is human-readable; JSON
// would only matter behind a log shipper we do not run.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewWithWriter creates a logger writing JSON to w. Used by tests.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
