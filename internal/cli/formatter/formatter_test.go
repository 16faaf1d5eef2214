package formatter

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func newAdvice(res *domain.RecommendationResult) *contract.Advice {
	reading := domain.DefaultReading()
	b := sensitivity.NewBuilder(70, sensitivity.DefaultSweepConfig())
	return &contract.Advice{
		RequestID:      "req-1",
		Schema:         domain.SchemaV2,
		Reading:        reading,
		Metrics:        reading.MetricsFor(domain.SchemaV2),
		Result:         *res,
		Classification: classify.Classify(res.ControlStatus),
		Map:            b.Build(reading, res),
	}
}

func TestFormatAdvice_ShowsDoseAndDirection(t *testing.T) {
	res := testutil.NewTestResult(testutil.WithDoses(26.5, 25), testutil.WithReason("Change limited to ±20%"))
	out := stripANSI(FormatAdvice(newAdvice(res), 70))

	assert.Contains(t, out, "RECOMMENDATION")
	assert.Contains(t, out, "OPTIMIZATION RECOMMENDED")
	assert.Contains(t, out, "26.50")
	assert.Contains(t, out, DoseUnit)
	assert.Contains(t, out, "▲ INCREASE")
	assert.Contains(t, out, "1.50 kg")
	assert.Contains(t, out, "+6.0%")
	assert.Contains(t, out, "Change limited to ±20%")
	assert.NotContains(t, out, "Outlet (optimized)")
}

func TestFormatAdvice_SteadyAdvisoryAndHold(t *testing.T) {
	res := testutil.NewTestResult(testutil.WithStatus("MAINTAIN_OPTIMAL"), testutil.WithDoses(25, 25))
	out := stripANSI(FormatAdvice(newAdvice(res), 70))

	assert.Contains(t, out, contract.SteadyAdvisory)
	assert.Contains(t, out, "● HOLD")
	assert.Contains(t, out, "0.0%")
}

func TestFormatAdvice_UnknownCodeShownRaw(t *testing.T) {
	res := testutil.NewTestResult(testutil.WithStatus("UNKNOWN_CODE"))
	out := stripANSI(FormatAdvice(newAdvice(res), 70))
	assert.Contains(t, out, "? UNKNOWN_CODE")
}

func TestFormatAdvice_DualEstimate(t *testing.T) {
	res := testutil.NewTestResult(testutil.WithOptimizedOutlet(70.2))
	flow, ret := 7407.41, 3.65
	res.FlowCalculated, res.RetentionCalculated = &flow, &ret
	out := stripANSI(FormatAdvice(newAdvice(res), 70))

	assert.Contains(t, out, "Outlet (optimized)")
	assert.Contains(t, out, "70.2")
	assert.Contains(t, out, "7407.41")
	assert.Contains(t, out, "3.65")
}

func TestFormatAdvice_Nil(t *testing.T) {
	assert.Empty(t, FormatAdvice(nil, 70))
}

func TestFormatMetrics_Placeholder(t *testing.T) {
	out := stripANSI(FormatMetrics(domain.DeriveMetrics(700, 0)))
	assert.Contains(t, out, "Pulp Flow")
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "Inf")

	out = stripANSI(FormatMetrics(domain.DeriveMetrics(700, 10.5)))
	assert.Contains(t, out, "7407.41")
	assert.Contains(t, out, "3.65")
}

func TestFormatReading_FollowsSchema(t *testing.T) {
	r := domain.DefaultReading()
	v1 := stripANSI(FormatReading(r, domain.SchemaV1))
	assert.Contains(t, v1, "Pulp Flow (m³/h)")
	assert.NotContains(t, v1, "Consistency")

	v2 := stripANSI(FormatReading(r, domain.SchemaV2))
	assert.Contains(t, v2, "Consistency (%)")
	assert.Contains(t, v2, "10.50")
}

func TestFormatSensitivity_Sweep(t *testing.T) {
	points, hl := sensitivity.BuildSweep(8.5, 3.0, 2.8, sensitivity.DefaultSweepConfig())
	out := stripANSI(FormatSensitivity(sensitivity.Map{Mode: sensitivity.ModeSweep, Sweep: points, Highlight: &hl}))

	assert.Contains(t, out, "OPERATIONAL SENSITIVITY")
	assert.Contains(t, out, "19.50")
	assert.Contains(t, out, "29.40")
	assert.Equal(t, 1, strings.Count(out, "◀ now"))
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "◀ now") {
			assert.Contains(t, line, "8.5")
			assert.Contains(t, line, "25.50")
		}
	}
}

func TestFormatSensitivity_TwoPointAndEmpty(t *testing.T) {
	res := testutil.NewTestResult()
	m := sensitivity.Map{Mode: sensitivity.ModeTwoPoint, Points: sensitivity.TwoPoint(res, 70)}
	out := stripANSI(FormatSensitivity(m))
	assert.Contains(t, out, "Current Status")
	assert.Contains(t, out, "Recommended Target")
	assert.Contains(t, out, "70.0")

	assert.Contains(t, stripANSI(FormatSensitivity(sensitivity.Map{})), "No recommendation yet.")
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	rec := testutil.NewTestRecord(testutil.NewTestResult(testutil.WithStatus("SAFETY_OVERBLEACH"), testutil.WithDoses(20, 25)),
		testutil.WithCreatedAt(now.Add(-5*time.Minute)))

	out := stripANSI(FormatHistory([]*domain.RecommendationRecord{rec}, now))
	assert.Contains(t, out, rec.ID[:8])
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "SAFETY_OVERBLEACH")
	assert.Contains(t, out, "-5.00")
	assert.Contains(t, out, "1 recommendation(s)")

	assert.Contains(t, FormatHistory(nil, now), "No recommendations recorded yet.")
}

func TestFormatHealth(t *testing.T) {
	h := &predict.HealthStatus{Status: "healthy", ModelsLoaded: true}
	info := &predict.ServiceInfo{Message: "D0 optimizer", Version: "2.0", Endpoints: map[string]string{"POST /predict": "recommend"}}
	out := stripANSI(FormatHealth("http://svc", h, nil, info, nil))
	assert.Contains(t, out, "http://svc")
	assert.Contains(t, out, "● healthy")
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "POST /predict")

	ce := &predict.ConnectionError{Code: "UNAVAILABLE", Err: errors.New("dial tcp: refused")}
	out = stripANSI(FormatHealth("http://svc", nil, ce, nil, ce))
	assert.Contains(t, out, predict.UserMessage)
	assert.Contains(t, out, "dial tcp: refused")
}

func TestFormatClassification(t *testing.T) {
	out := stripANSI(FormatClassification(classify.Classify("GUARDRAIL_UNDERBLEACH")))
	assert.Contains(t, out, "▲ SAFETY: UNDER-BLEACH DETECTED")
	assert.Contains(t, out, "underbleach")

	out = stripANSI(FormatClassification(classify.Classify("NEW_CODE")))
	assert.Contains(t, out, "NEW_CODE")
	assert.Contains(t, out, "Unrecognized code")
}

func TestRenderTable_RightAlign(t *testing.T) {
	out := stripANSI(RenderTable([]Column{{Title: "NAME"}, {Title: "VALUE", Align: AlignRight}}, [][]string{
		{"a", "1.5"},
		{"bbbb", "12.25"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME  VALUE", lines[0])
	assert.Equal(t, "a       1.5", lines[2])
	assert.Equal(t, "bbbb  12.25", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderGauge(t *testing.T) {
	out := stripANSI(RenderGauge(50, 70, 100, 10))
	assert.Equal(t, "[█████░░░░░] 50.0", out)
	assert.Equal(t, "[░░░░] "+domain.Placeholder, stripANSI(RenderGauge(math.Inf(1), 70, 100, 4)))
}

func TestSignedNumberAndTimestamps(t *testing.T) {
	assert.Equal(t, "+1.50", SignedNumber(1.5, 2))
	assert.Equal(t, "-1.50", SignedNumber(-1.5, 2))
	assert.Equal(t, "0.00", SignedNumber(0, 2))

	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
}
