package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

const (
	// DoseUnit is the setpoint unit of the ClO₂ dose.
	DoseUnit = "kg Ac Cl"

	labelWidth = 22
	gaugeWidth = 16
	isoFull    = 100.0
)

// FormatAdvice renders one recommendation as a boxed panel. The border
// takes the severity color of the control status.
func FormatAdvice(a *contract.Advice, target float64) string {
	if a == nil {
		return ""
	}
	res := a.Result
	var b strings.Builder

	b.WriteString(StatusBadge(a.Classification))
	if a.Classification.Known() {
		b.WriteString("  " + Dim(a.Classification.Code))
	}
	b.WriteString("\n")
	if adv := a.Advisory(); adv != "" {
		b.WriteString(StyleBlue.Render(adv) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(KeyValue("Recommended Setpoint", Bold(Number(res.RecommendedDose, 2))+" "+Dim(DoseUnit), labelWidth) + "\n")
	b.WriteString(KeyValue("Current Dose", Number(res.CurrentDose, 2), labelWidth) + "\n")
	b.WriteString(KeyValue("Adjustment", fmt.Sprintf("%s  %s kg", DirectionIndicator(a.Direction()), Number(math.Abs(res.Delta), 2)), labelWidth) + "\n")
	b.WriteString(KeyValue("Dose Deviation", a.DeviationDisplay(), labelWidth) + "\n")
	b.WriteString("\n")

	b.WriteString(KeyValue("K-Factor (target)", Number(res.KOptimal, 2), labelWidth) + "\n")
	b.WriteString(KeyValue("K-Factor (current)", Number(res.KCurrent, 2), labelWidth) + "\n")
	b.WriteString(KeyValue("Outlet (current)", RenderGauge(res.EstimatedOutletCurrent, target, isoFull, gaugeWidth)+" "+Dim("%ISO"), labelWidth) + "\n")
	if res.PredictedOutletOptimized != nil {
		b.WriteString(KeyValue("Outlet (optimized)", RenderGauge(*res.PredictedOutletOptimized, target, isoFull, gaugeWidth)+" "+Dim("%ISO"), labelWidth) + "\n")
	}

	if res.FlowCalculated != nil || res.RetentionCalculated != nil {
		b.WriteString("\n")
		b.WriteString(KeyValue("Flow (service)", OptionalNumber(res.FlowCalculated, 2)+" "+Dim("m³/h"), labelWidth) + "\n")
		b.WriteString(KeyValue("Retention (service)", OptionalNumber(res.RetentionCalculated, 2)+" "+Dim("min"), labelWidth) + "\n")
	}
	if res.Reason != "" {
		b.WriteString("\n" + KeyValue("Reason", res.Reason, labelWidth) + "\n")
	}

	return RenderAccentBox("Recommendation", strings.TrimRight(b.String(), "\n"), SeverityColor(a.Classification.Severity))
}

// FormatMetrics renders flow and retention time. Non-finite values show
// domain.Placeholder.
func FormatMetrics(m domain.DerivedMetrics) string {
	return KeyValue("Pulp Flow", m.FlowDisplay()+" "+Dim("m³/h"), labelWidth) + "\n" +
		KeyValue("Retention Time", m.RetentionDisplay()+" "+Dim("min"), labelWidth) + "\n"
}

// FormatReading renders the fields of reading that schema sends.
func FormatReading(r domain.ProcessReading, schema domain.SchemaVersion) string {
	var b strings.Builder
	for _, f := range domain.FieldsFor(schema) {
		v, _ := r.Get(f)
		b.WriteString(KeyValue(f.Label(), Number(v, 2), labelWidth+4) + "\n")
	}
	return b.String()
}

// FormatError renders the operator-facing failure line.
func FormatError(msg string) string {
	return StyleRedBold.Render("✖ " + msg)
}
