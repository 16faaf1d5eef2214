package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/google/uuid"
)

type adviceService struct {
	client     predict.Client
	classifier *classify.Registry
	builder    sensitivity.Builder
	history    HistoryService
	logger     *slog.Logger
	observer   UseCaseObserver
	now        func() time.Time
}

// AdviceDeps are the collaborators of NewAdviceService. Classifier defaults
// to classify.DefaultRegistry, Builder to the default target and sweep,
// History to none and Logger to slog.Default.
type AdviceDeps struct {
	Client     predict.Client
	Classifier *classify.Registry
	Builder    *sensitivity.Builder
	History    HistoryService
	Logger     *slog.Logger
}

func NewAdviceService(deps AdviceDeps, observers ...UseCaseObserver) AdviceService {
	s := &adviceService{
		client:     deps.Client,
		classifier: deps.Classifier,
		history:    deps.History,
		logger:     deps.Logger,
		observer:   useCaseObserverOrNoop(observers),
		now:        func() time.Time { return time.Now().UTC() },
	}
	if s.classifier == nil {
		s.classifier = classify.DefaultRegistry()
	}
	if deps.Builder != nil {
		s.builder = *deps.Builder
	} else {
		s.builder = sensitivity.NewBuilder(sensitivity.DefaultTargetBrightness, sensitivity.DefaultSweepConfig())
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *adviceService) Recommend(ctx context.Context, req contract.AdviceRequest) (advice *contract.Advice, err error) {
	startedAt := s.now()
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.Schema == "" {
		req.Schema = domain.SchemaV2
	}
	fields := map[string]any{
		"request_id": req.RequestID,
		"schema":     string(req.Schema),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "advice.recommend",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	reading := req.Reading
	var result *domain.RecommendationResult
	result, err = s.client.Submit(ctx, req.Schema, reading)
	if err != nil {
		return nil, err
	}

	advice = &contract.Advice{
		RequestID:      req.RequestID,
		ReceivedAt:     s.now(),
		Schema:         req.Schema,
		Reading:        reading,
		Metrics:        reading.MetricsFor(req.Schema),
		Result:         *result,
		Classification: s.classifier.Classify(result.ControlStatus),
		Map:            s.builder.Build(reading, result),
	}
	fields["control_status"] = result.ControlStatus
	fields["category"] = advice.Classification.Category.String()
	fields["map_mode"] = string(advice.Map.Mode)

	s.record(ctx, advice)
	return advice, nil
}

// record stores the advice in history. Failures are logged and never
// returned. A request cancelled before its result arrived is never shown,
// so it is not recorded. Once started, the write is not cut short.
func (s *adviceService) record(ctx context.Context, a *contract.Advice) {
	if s.history == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		s.logger.DebugContext(ctx, "history record skipped", "request_id", a.RequestID, "reason", err)
		return
	}
	rec := &domain.RecommendationRecord{
		ID:        a.RequestID,
		CreatedAt: a.ReceivedAt,
		Schema:    a.Schema,
		Reading:   a.Reading,
		Result:    a.Result,
	}
	if err := s.history.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.WarnContext(ctx, "history record failed", "request_id", a.RequestID, "error", err)
	}
}
