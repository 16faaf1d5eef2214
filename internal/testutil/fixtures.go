package testutil

import (
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/google/uuid"
)

// Reading options
type ReadingOption func(*domain.ProcessReading)

func WithKappa(k float64) ReadingOption {
	return func(r *domain.ProcessReading) {
		r.Kappa = k
	}
}

func WithCurrentDose(d float64) ReadingOption {
	return func(r *domain.ProcessReading) {
		r.CurrentDose = d
	}
}

func WithProduction(rate, consistency float64) ReadingOption {
	return func(r *domain.ProcessReading) {
		r.ProductionRate = rate
		r.Consistency = consistency
	}
}

// NewTestReading returns the default operating point with opts applied.
func NewTestReading(opts ...ReadingOption) domain.ProcessReading {
	r := domain.DefaultReading()
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Result options
type ResultOption func(*domain.RecommendationResult)

func WithStatus(code string) ResultOption {
	return func(r *domain.RecommendationResult) {
		r.ControlStatus = code
	}
}

func WithDoses(recommended, current float64) ResultOption {
	return func(r *domain.RecommendationResult) {
		r.RecommendedDose = recommended
		r.CurrentDose = current
		r.Delta = recommended - current
	}
}

func WithKRatios(optimal, current float64) ResultOption {
	return func(r *domain.RecommendationResult) {
		r.KOptimal = optimal
		r.KCurrent = current
	}
}

// WithOptimizedOutlet sets the second outlet estimate, making the result dual-shaped.
func WithOptimizedOutlet(b float64) ResultOption {
	return func(r *domain.RecommendationResult) {
		r.PredictedOutletOptimized = &b
		r.Shape = domain.ShapeDualEstimate
	}
}

func WithReason(reason string) ResultOption {
	return func(r *domain.RecommendationResult) {
		r.Reason = reason
	}
}

// NewTestResult returns a single-estimate OPTIMIZED result for the default
// reading with opts applied.
func NewTestResult(opts ...ResultOption) *domain.RecommendationResult {
	r := &domain.RecommendationResult{
		RecommendedDose:        26.5,
		CurrentDose:            25,
		Delta:                  1.5,
		KOptimal:               3.0,
		KCurrent:               2.8,
		EstimatedOutletCurrent: 68.4,
		ControlStatus:          "OPTIMIZED",
		Shape:                  domain.ShapeSingleEstimate,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record options
type RecordOption func(*domain.RecommendationRecord)

func WithCreatedAt(t time.Time) RecordOption {
	return func(r *domain.RecommendationRecord) {
		r.CreatedAt = t
	}
}

func WithSchema(s domain.SchemaVersion) RecordOption {
	return func(r *domain.RecommendationRecord) {
		r.Schema = s
	}
}

// NewTestRecord wraps result in a history record for the default reading.
func NewTestRecord(result *domain.RecommendationResult, opts ...RecordOption) *domain.RecommendationRecord {
	rec := &domain.RecommendationRecord{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Schema:    domain.SchemaV2,
		Reading:   NewTestReading(),
		Result:    *result,
	}
	for _, opt := range opts {
		opt(rec)
	}
	return rec
}
