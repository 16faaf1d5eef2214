package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent is emitted once per service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	// ReadOnly marks queries; they are logged at debug level.
	ReadOnly bool
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type slogUseCaseObserver struct {
	logger *slog.Logger
}

// NewSlogUseCaseObserver writes use-case events through logger. A nil
// logger yields a no-op observer.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{logger: logger}
}

func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, k, event.Fields[k])
	}

	level := slog.LevelInfo
	switch {
	case errors.Is(event.Err, context.Canceled):
		// A superseded submission, not a failure.
		attrs = append(attrs, "canceled", true)
	case event.Err != nil:
		attrs = append(attrs, "error", event.Err.Error())
		level = slog.LevelWarn
	case event.ReadOnly:
		level = slog.LevelDebug
	}
	o.logger.Log(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
