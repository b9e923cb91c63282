package messaging

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ThreeDotsLabs/watermill"

	"ticketing/internal/lib/logger/sl"
)

const LevelTrace = slog.LevelDebug - 4

// SlogAdapter feeds watermill's logs into the application logger.
type SlogAdapter struct {
	log *slog.Logger
}

func NewSlogAdapter(log *slog.Logger) *SlogAdapter {
	return &SlogAdapter{log: log}
}

func (a *SlogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(attrs(fields), sl.Err(err))...)
}

func (a *SlogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, attrs(fields)...)
}

func (a *SlogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, attrs(fields)...)
}

func (a *SlogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Log(context.Background(), LevelTrace, msg, attrs(fields)...)
}

func (a *SlogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &SlogAdapter{log: a.log.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)+1)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, slog.Any(k, fields[k]))
	}

	return out
}
