// Package logging builds the application zerolog logger and bridges other
// components (gorm, net/http) onto it.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"

	"github.com/diewo77/nexusmanager/internal/config"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a logger writing to out through a non-blocking diode buffer.
// The returned closer flushes the buffer and must be called on shutdown.
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer) {
	if out == nil {
		out = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if strings.EqualFold(cfg.Format, FormatPretty) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	dw := diode.NewWriter(w, 1000, 10*time.Millisecond, func(missed int) {
		_, _ = io.WriteString(os.Stderr, "logger dropped messages\n")
	})

	logger := zerolog.New(dw).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return logger, dw
}
