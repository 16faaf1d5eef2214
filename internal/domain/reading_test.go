package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"8.5", 8.5},
		{"  75 ", 75},
		{"-3", -3},
		{".5", 0.5},
		{"5.", 5},
		{"1e2", 100},
		{"12.5abc", 12.5},
		{"3e", 3},
		{"2.2.2", 2.2},
		{"", 0},
		{"abc", 0},
		{"-", 0},
		{".", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"inf", 0},
		{"1e400", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseNumber(tc.raw), "raw=%q", tc.raw)
	}
}

func TestSetField_CoercesMalformedToZero(t *testing.T) {
	r := DefaultReading()

	require.NoError(t, r.SetField(FieldKappa, "not a number"))
	assert.Equal(t, 0.0, r.Kappa)
	// Other fields are untouched.
	assert.Equal(t, 75.0, r.Temperature)
}

func TestSetField_AcceptsOutOfRange(t *testing.T) {
	r := DefaultReading()

	require.NoError(t, r.SetField(FieldPH, "42"))
	require.NoError(t, r.SetField(FieldInletBrightness, "150"))
	require.NoError(t, r.SetField(FieldCurrentDose, "-4"))

	assert.Equal(t, 42.0, r.PH)
	assert.Equal(t, 150.0, r.InletBrightness)
	assert.Equal(t, -4.0, r.CurrentDose)
}

func TestSetField_UnknownField(t *testing.T) {
	r := DefaultReading()
	err := r.SetField(Field("viscosity"), "1")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, DefaultReading(), r)
}

func TestSetAndGet_EveryField(t *testing.T) {
	var r ProcessReading
	for i, f := range append(FieldsFor(SchemaV1), FieldProductionRate, FieldConsistency) {
		require.NoError(t, r.Set(f, float64(i+1)))
		got, err := r.Get(f)
		require.NoError(t, err)
		assert.Equal(t, float64(i+1), got, "field=%s", f)
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("inlet-brightness")
	require.NoError(t, err)
	assert.Equal(t, FieldInletBrightness, f)

	f, err = ParseField(" Current_Dose ")
	require.NoError(t, err)
	assert.Equal(t, FieldCurrentDose, f)

	_, err = ParseField("flow")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldsFor(t *testing.T) {
	assert.Equal(t,
		[]Field{FieldKappa, FieldTemperature, FieldPH, FieldInletBrightness, FieldPulpFlow, FieldCurrentDose},
		FieldsFor(SchemaV1))
	assert.Equal(t,
		[]Field{FieldKappa, FieldTemperature, FieldPH, FieldInletBrightness, FieldCurrentDose, FieldProductionRate, FieldConsistency},
		FieldsFor(SchemaV2))
}

func TestMetricsFor(t *testing.T) {
	r := DefaultReading()

	v1 := r.MetricsFor(SchemaV1)
	assert.Equal(t, r.PulpFlow, v1.Flow)

	v2 := r.MetricsFor(SchemaV2)
	assert.InDelta(t, 7407.41, v2.Flow, 0.01)
}

func TestResultDirectionAndDeviation(t *testing.T) {
	res := RecommendationResult{CurrentDose: 25, Delta: 2.5}
	assert.Equal(t, DirectionIncrease, res.Direction())
	pct, ok := res.DeviationPercent()
	require.True(t, ok)
	assert.InDelta(t, 10.0, pct, 1e-9)

	res.Delta = -1
	assert.Equal(t, DirectionDecrease, res.Direction())

	res.Delta = 0
	assert.Equal(t, DirectionHold, res.Direction())

	res.CurrentDose = 0
	_, ok = res.DeviationPercent()
	assert.False(t, ok)
}
