// Package cli implements the graphtext command-line interface.
//
// Every command reads graph text from a file argument or stdin, parses it
// with the same rules as the drawing page and reports failures as
// "Error: <message>".
//
// # Commands
//
//   - draw: Render graph text to SVG, PNG, PDF, DOT, JSON, HTML or text
//   - check: Validate graph text and print its size
//   - fmt: Rewrite graph text in canonical form
//   - edit: Edit graph text in a terminal editor with live validation
//   - serve: Run the drawing page and JSON API
//   - cache: Manage the artifact cache
//
// Diagnostics go through a charmbracelet/log logger on stderr; --verbose
// lowers its level to debug. Commands find the logger in their context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w that stamps each line with wall-clock
// time to the hundredth of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with an "elapsed" field rounded to the
// millisecond, followed by any extra key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	fields := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, fields...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() when a command runs without one (as in unit tests).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
