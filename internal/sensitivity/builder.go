// Package sensitivity derives the chart points shown next to a dose
// recommendation. Everything here is a pure function of the latest
// RecommendationResult and, for the sweep, the submitted reading.
package sensitivity

import "github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"

// DefaultTargetBrightness is the fixed outlet-brightness reference (%ISO)
// used when the service did not predict the optimized outlet.
const DefaultTargetBrightness = 70.0

// Mode selects which chart a Map holds.
type Mode string

const (
	ModeTwoPoint Mode = "two_point"
	ModeSweep    Mode = "sweep"
)

// PointKind distinguishes the two operating points.
type PointKind string

const (
	KindCurrent PointKind = "current"
	KindTarget  PointKind = "target"
)

// OperatingPoint is one (brightness, dose) pair on the two-point chart.
type OperatingPoint struct {
	Name       string
	Kind       PointKind
	Brightness float64 // %ISO
	Dose       float64
}

// SweepPoint is one kappa sample with the dose each efficiency line implies.
type SweepPoint struct {
	Kappa       float64
	OptimalLine float64
	CurrentLine float64
}

// SweepConfig controls the kappa sweep: offsets -Steps..+Steps times Step.
type SweepConfig struct {
	Step  float64
	Steps int
}

// DefaultSweepConfig samples kappa ± 2.0 in 0.5 increments.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{Step: 0.5, Steps: 4}
}

const (
	kappaPlaces = 1
	linePlaces  = 2
)

// Map is the render-ready sensitivity data for one recommendation.
// Points is set in two-point mode; Sweep and Highlight in sweep mode.
type Map struct {
	Mode      Mode
	Points    []OperatingPoint
	Sweep     []SweepPoint
	Highlight *SweepPoint
}

// Builder builds Maps with a fixed target reference and sweep configuration.
type Builder struct {
	Target float64
	Sweep  SweepConfig
}

// NewBuilder returns a Builder. A non-positive target falls back to
// DefaultTargetBrightness and an invalid sweep to DefaultSweepConfig.
func NewBuilder(target float64, sweep SweepConfig) Builder {
	if target <= 0 || !domain.IsFinite(target) {
		target = DefaultTargetBrightness
	}
	if sweep.Step <= 0 || sweep.Steps < 0 || !domain.IsFinite(sweep.Step) {
		sweep = DefaultSweepConfig()
	}
	return Builder{Target: target, Sweep: sweep}
}

// Build picks the algorithm from the result shape: a response carrying both
// outlet estimates gets the kappa sweep, a single-estimate response gets the
// two-point chart. A nil result yields an empty Map.
func (b Builder) Build(reading domain.ProcessReading, res *domain.RecommendationResult) Map {
	if res == nil {
		return Map{}
	}
	if res.Shape == domain.ShapeDualEstimate {
		points, highlight := BuildSweep(reading.Kappa, res.KOptimal, res.KCurrent, b.Sweep)
		return Map{Mode: ModeSweep, Sweep: points, Highlight: &highlight}
	}
	return Map{Mode: ModeTwoPoint, Points: TwoPoint(res, b.Target)}
}

// TwoPoint returns "where you are" and "where the service says you should
// be". The target brightness is the predicted optimized outlet when the
// service sent one, otherwise target.
func TwoPoint(res *domain.RecommendationResult, target float64) []OperatingPoint {
	targetBrightness := domain.FirstSet(target, res.PredictedOutletOptimized)
	return []OperatingPoint{
		{
			Name:       "Current Status",
			Kind:       KindCurrent,
			Brightness: res.EstimatedOutletCurrent,
			Dose:       res.CurrentDose,
		},
		{
			Name:       "Recommended Target",
			Kind:       KindTarget,
			Brightness: targetBrightness,
			Dose:       res.RecommendedDose,
		},
	}
}

// BuildSweep samples k = kappa + i·Step for i in [-Steps, Steps], drops
// samples with k ≤ 0, and returns them in increasing kappa order together
// with the point at the submitted kappa. Kappa is rounded to one decimal,
// never below minSweepKappa for a positive sample, and line values to two.
func BuildSweep(kappa, kOptimal, kCurrent float64, cfg SweepConfig) ([]SweepPoint, SweepPoint) {
	points := make([]SweepPoint, 0, 2*cfg.Steps+1)
	for i := -cfg.Steps; i <= cfg.Steps; i++ {
		k := kappa + float64(i)*cfg.Step
		if k <= 0 || !domain.IsFinite(k) {
			continue
		}
		p := sweepPoint(k, kOptimal, kCurrent)
		if n := len(points); n > 0 && p.Kappa <= points[n-1].Kappa {
			continue
		}
		points = append(points, p)
	}
	return points, sweepPoint(kappa, kOptimal, kCurrent)
}

// minSweepKappa is the smallest kappa a positive sample is shown as.
const minSweepKappa = 0.1

func sweepPoint(k, kOptimal, kCurrent float64) SweepPoint {
	kappa := domain.Round(k, kappaPlaces)
	if k > 0 && kappa < minSweepKappa {
		kappa = minSweepKappa
	}
	return SweepPoint{
		Kappa:       kappa,
		OptimalLine: domain.Round(k*kOptimal, linePlaces),
		CurrentLine: domain.Round(k*kCurrent, linePlaces),
	}
}
