// Package logging builds the zerolog logger used for run diagnostics.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/matsen/zotrec/internal/config"
)

// New returns the diagnostics logger for the given output mode, writing to w
// (normally stderr).
//
// Human and browse modes get a console writer at info level, or debug when
// verbose. JSON mode is silent so that stdout stays machine readable, unless
// verbose is set, in which case debug records are written to w as JSON lines.
func New(w io.Writer, output config.OutputFormat, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if output == config.OutputJSON {
		if !verbose {
			return zerolog.Nop()
		}
		return zerolog.New(w).With().Timestamp().Logger().Level(level)
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(cw).With().Timestamp().Logger().Level(level)
}
