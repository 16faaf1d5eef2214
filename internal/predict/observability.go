package predict

import (
	"log/slog"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// CallEvent records metadata about a single call to the prediction service.
type CallEvent struct {
	Endpoint  string
	Schema    domain.SchemaVersion
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about service calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"endpoint", event.Endpoint,
		"latency_ms", event.LatencyMs,
		"success", event.Success,
	}
	if event.Schema != "" {
		attrs = append(attrs, "schema", string(event.Schema))
	}
	if !event.Success {
		o.logger.Warn("predict_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("predict_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
