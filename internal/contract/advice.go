package contract

import (
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
)

// SteadyAdvisory is shown when the service says to hold the current dose.
const SteadyAdvisory = "Current dose matches the recommendation. Hold the setpoint."

type AdviceRequest struct {
	RequestID string
	Schema    domain.SchemaVersion
	Reading   domain.ProcessReading
}

func NewAdviceRequest(schema domain.SchemaVersion, reading domain.ProcessReading) AdviceRequest {
	return AdviceRequest{Schema: schema, Reading: reading}
}

// Advice is everything shown for one successful submission. It is built
// once per response and replaced wholesale by the next one.
type Advice struct {
	RequestID  string
	ReceivedAt time.Time
	Schema     domain.SchemaVersion

	// Reading is the snapshot that was submitted, not the live form.
	Reading domain.ProcessReading
	Metrics domain.DerivedMetrics

	Result         domain.RecommendationResult
	Classification classify.Classification
	Map            sensitivity.Map
}

func (a *Advice) Direction() domain.Direction {
	return a.Result.Direction()
}

// Advisory returns the extra line shown under the status, if any.
func (a *Advice) Advisory() string {
	if a.Classification.Category == classify.CategorySteady {
		return SteadyAdvisory
	}
	return ""
}

// DeviationDisplay renders delta as a percentage of the echoed current dose
// with one decimal and an explicit sign, or domain.Placeholder.
func (a *Advice) DeviationDisplay() string {
	pct, ok := a.Result.DeviationPercent()
	if !ok {
		return domain.Placeholder
	}
	s := domain.FormatFinite(pct, 1)
	if pct > 0 {
		s = "+" + s
	}
	return s + "%"
}
