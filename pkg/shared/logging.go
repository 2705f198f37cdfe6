package shared

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a human-readable logger writing to w.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
