package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when a field name is not part of ProcessReading.
var ErrUnknownField = errors.New("unknown process field")

// Field names a ProcessReading value. The string form is the wire key.
type Field string

const (
	FieldKappa           Field = "kappa"
	FieldTemperature     Field = "temperature"
	FieldPH              Field = "ph"
	FieldInletBrightness Field = "inlet_brightness"
	FieldPulpFlow        Field = "pulp_flow"
	FieldCurrentDose     Field = "current_dose"
	FieldProductionRate  Field = "production_rate"
	FieldConsistency     Field = "consistency"
)

var fieldLabels = map[Field]string{
	FieldKappa:           "Kappa Number",
	FieldTemperature:     "Temp (°C)",
	FieldPH:              "pH Level",
	FieldInletBrightness: "Inlet Brightness (%ISO)",
	FieldPulpFlow:        "Pulp Flow (m³/h)",
	FieldCurrentDose:     "Current ClO₂ Dose (SP)",
	FieldProductionRate:  "Production Rate (ADt/d)",
	FieldConsistency:     "Consistency (%)",
}

// Label returns the operator-facing caption for the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseField resolves a wire key (or its dashed flag spelling) to a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := fieldLabels[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// FieldsFor returns the fields an operator edits under the given schema,
// in form order.
func FieldsFor(schema SchemaVersion) []Field {
	common := []Field{FieldKappa, FieldTemperature, FieldPH, FieldInletBrightness}
	if schema == SchemaV1 {
		return append(common, FieldPulpFlow, FieldCurrentDose)
	}
	return append(common, FieldCurrentDose, FieldProductionRate, FieldConsistency)
}

// ProcessReading holds the operator-entered process values for one D0 stage.
// Every field is a finite number; see SetField for how raw input is coerced.
type ProcessReading struct {
	Kappa           float64
	Temperature     float64
	PH              float64
	InletBrightness float64
	CurrentDose     float64
	PulpFlow        float64
	ProductionRate  float64
	Consistency     float64
}

// DefaultReading returns a representative operating point.
func DefaultReading() ProcessReading {
	return ProcessReading{
		Kappa:           8.5,
		Temperature:     75.0,
		PH:              2.2,
		InletBrightness: 70.0,
		CurrentDose:     25.0,
		PulpFlow:        750.0,
		ProductionRate:  700.0,
		Consistency:     10.5,
	}
}

func (r *ProcessReading) fieldPtr(name Field) *float64 {
	switch name {
	case FieldKappa:
		return &r.Kappa
	case FieldTemperature:
		return &r.Temperature
	case FieldPH:
		return &r.PH
	case FieldInletBrightness:
		return &r.InletBrightness
	case FieldCurrentDose:
		return &r.CurrentDose
	case FieldPulpFlow:
		return &r.PulpFlow
	case FieldProductionRate:
		return &r.ProductionRate
	case FieldConsistency:
		return &r.Consistency
	}
	return nil
}

// SetField parses raw and stores it in the named field. Input that does not
// parse as a number stores 0; out-of-range numbers are accepted as-is.
// The only error is an unknown field name.
func (r *ProcessReading) SetField(name Field, raw string) error {
	return r.Set(name, ParseNumber(raw))
}

// Set stores v in the named field, replacing NaN and ±Inf with 0.
func (r *ProcessReading) Set(name Field, v float64) error {
	p := r.fieldPtr(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	*p = finiteOrZero(v)
	return nil
}

// Get returns the value of the named field.
func (r ProcessReading) Get(name Field) (float64, error) {
	p := r.fieldPtr(name)
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return *p, nil
}

// MetricsFor derives flow and retention the way the schema defines flow:
// entered directly (v1) or computed from production rate and consistency (v2).
func (r ProcessReading) MetricsFor(schema SchemaVersion) DerivedMetrics {
	if schema == SchemaV1 {
		return MetricsFromFlow(r.PulpFlow)
	}
	return DeriveMetrics(r.ProductionRate, r.Consistency)
}

// ParseNumber converts operator text to a float the way a lenient numeric
// input does: surrounding space is ignored, the longest leading numeric
// prefix is used ("12.5abc" is 12.5), and anything else, including NaN and
// infinities, becomes 0.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finiteOrZero(v)
	}
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

// numericPrefix returns the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits], or "" if s has no leading digits.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
