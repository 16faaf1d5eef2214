package domain

import "time"

// RecommendationResult is the normalized answer of the prediction service to
// one submitted ProcessReading. It is never merged with a previous result.
type RecommendationResult struct {
	RecommendedDose float64
	// CurrentDose is the dose echoed by the service; it is authoritative
	// over the locally submitted value.
	CurrentDose float64
	// Delta is recommended minus current; positive means increase.
	Delta    float64
	KOptimal float64
	KCurrent float64

	EstimatedOutletCurrent   float64
	PredictedOutletOptimized *float64

	ControlStatus string
	Reason        string

	FlowCalculated      *float64
	RetentionCalculated *float64

	Shape ResultShape
}

// Direction returns the sign of Delta as an adjustment direction.
func (r *RecommendationResult) Direction() Direction {
	switch {
	case r.Delta > 0:
		return DirectionIncrease
	case r.Delta < 0:
		return DirectionDecrease
	default:
		return DirectionHold
	}
}

// DeviationPercent returns Delta as a percentage of the echoed current dose.
// The second value is false when the current dose is zero.
func (r *RecommendationResult) DeviationPercent() (float64, bool) {
	if r.CurrentDose == 0 {
		return 0, false
	}
	pct := r.Delta / r.CurrentDose * 100
	if !IsFinite(pct) {
		return 0, false
	}
	return pct, true
}

// HasOptimizedEstimate reports whether the service predicted the outlet
// brightness at the recommended dose.
func (r *RecommendationResult) HasOptimizedEstimate() bool {
	return r.PredictedOutletOptimized != nil
}

// RecommendationRecord is one successful submission kept in local history.
type RecommendationRecord struct {
	ID        string
	CreatedAt time.Time
	Schema    SchemaVersion
	Reading   ProcessReading
	Result    RecommendationResult
}
