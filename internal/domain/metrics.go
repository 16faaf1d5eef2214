package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// TowerVolume is the D0 tower volume in m³.
	TowerVolume = 450.0
	// FlowEfficiency is the dilution efficiency used in the flow formula.
	FlowEfficiency = 0.9
	// Placeholder is shown instead of a value that cannot be computed.
	Placeholder = "0"
)

// DerivedMetrics are auxiliary quantities projected from a ProcessReading.
// They are recomputed on every change and never sent as authoritative values.
type DerivedMetrics struct {
	Flow      float64 // m³/h
	Retention float64 // minutes
}

// DeriveMetrics computes pulp flow and tower retention time from production
// rate (ADt/d) and consistency (%). A zero consistency yields a non-finite
// flow, and a zero or non-finite flow yields a non-finite retention.
func DeriveMetrics(productionRate, consistency float64) DerivedMetrics {
	flow := productionRate * 100 / (FlowEfficiency * consistency)
	return MetricsFromFlow(flow)
}

// MetricsFromFlow computes retention time for a known flow.
func MetricsFromFlow(flow float64) DerivedMetrics {
	return DerivedMetrics{Flow: flow, Retention: RetentionFromFlow(flow)}
}

// RetentionFromFlow returns (TowerVolume / flow) × 60, or +Inf when flow is
// zero or not finite.
func RetentionFromFlow(flow float64) float64 {
	if flow == 0 || !IsFinite(flow) {
		return math.Inf(1)
	}
	return (TowerVolume / flow) * 60
}

func (m DerivedMetrics) FlowValid() bool      { return IsFinite(m.Flow) }
func (m DerivedMetrics) RetentionValid() bool { return IsFinite(m.Retention) }

// FlowDisplay renders flow with two decimals, or Placeholder.
func (m DerivedMetrics) FlowDisplay() string {
	return FormatFinite(m.Flow, 2)
}

// RetentionDisplay renders retention with two decimals, or Placeholder.
func (m DerivedMetrics) RetentionDisplay() string {
	return FormatFinite(m.Retention, 2)
}

// FormatFinite renders v rounded half away from zero to places decimals.
// NaN and infinities render as Placeholder.
func FormatFinite(v float64, places int32) string {
	if !IsFinite(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Round rounds v half away from zero to places decimals. Non-finite values
// are returned unchanged.
func Round(v float64, places int32) float64 {
	if !IsFinite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
