package testutil

import (
	"context"
	"sync"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
)

// FakePredictor is an in-process predict.Client. It answers immediately
// unless Block is set, in which case Submit waits for Block to close or the
// context to end.
type FakePredictor struct {
	mu sync.Mutex

	Result *domain.RecommendationResult
	Err    error
	Block  chan struct{}

	HealthStatus *predict.HealthStatus
	ServiceInfo  *predict.ServiceInfo

	calls   []domain.ProcessReading
	schemas []domain.SchemaVersion
}

var _ predict.Client = (*FakePredictor)(nil)

// NewFakePredictor returns a predictor answering with result.
func NewFakePredictor(result *domain.RecommendationResult) *FakePredictor {
	return &FakePredictor{
		Result:       result,
		HealthStatus: &predict.HealthStatus{Status: "healthy", ModelsLoaded: true},
		ServiceInfo: &predict.ServiceInfo{
			Message:      "D0 optimizer (fake)",
			Version:      "2.0",
			Architecture: "Two-Stage",
			Endpoints:    map[string]string{"POST /predict": "recommendation", "GET /health": "health"},
		},
	}
}

// Set swaps the canned answer.
func (f *FakePredictor) Set(result *domain.RecommendationResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Result, f.Err = result, err
}

func (f *FakePredictor) Submit(ctx context.Context, schema domain.SchemaVersion, reading domain.ProcessReading) (*domain.RecommendationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reading)
	f.schemas = append(f.schemas, schema)
	block, result, err := f.Block, f.Result, f.Err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &predict.ConnectionError{Code: "UNAVAILABLE", Err: predict.ErrServiceUnavailable}
	}
	cp := *result
	return &cp, nil
}

func (f *FakePredictor) Health(context.Context) (*predict.HealthStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.HealthStatus, nil
}

func (f *FakePredictor) Info(context.Context) (*predict.ServiceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ServiceInfo, nil
}

// Calls returns the readings submitted so far.
func (f *FakePredictor) Calls() []domain.ProcessReading {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ProcessReading(nil), f.calls...)
}

// Schemas returns the schema of each submission so far.
func (f *FakePredictor) Schemas() []domain.SchemaVersion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SchemaVersion(nil), f.schemas...)
}

// ConnectionFailure is the error a real client returns for an unreachable service.
func ConnectionFailure() error {
	return &predict.ConnectionError{Code: "UNAVAILABLE", Err: predict.ErrServiceUnavailable}
}
