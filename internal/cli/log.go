// Package cli implements the crossword-service command-line interface.
//
// Commands:
//   - start: serve the REST and websocket API
//   - migrate: apply the Postgres schema
//   - layout: lay out a question file offline and print the grid
//   - import: store a question file as a Postgres question set
//
// All commands accept --verbose (-v) for debug logging. The logger travels through
// context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting that filters at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// applyLevel lowers the logger threshold to the configured level. It never raises it, so
// --verbose wins over a quieter config.
func applyLevel(l *log.Logger, raw string) {
	if raw == "" {
		return
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		l.Warn("ignoring unknown log level", "level", raw)
		return
	}
	if level < l.GetLevel() {
		l.SetLevel(level)
	}
}
