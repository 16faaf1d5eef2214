package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// coercedFloat is a flag value with operator-input semantics: anything that
// does not parse as a number is stored as 0 instead of failing.
type coercedFloat struct {
	reading *domain.ProcessReading
	field   domain.Field
}

var _ pflag.Value = (*coercedFloat)(nil)

func (f *coercedFloat) String() string {
	if f.reading == nil {
		return "0"
	}
	v, _ := f.reading.Get(f.field)
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f *coercedFloat) Set(raw string) error {
	return f.reading.SetField(f.field, raw)
}

func (f *coercedFloat) Type() string { return "number" }

var allFields = []domain.Field{
	domain.FieldKappa,
	domain.FieldTemperature,
	domain.FieldPH,
	domain.FieldInletBrightness,
	domain.FieldPulpFlow,
	domain.FieldCurrentDose,
	domain.FieldProductionRate,
	domain.FieldConsistency,
}

func flagName(f domain.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

// readingFlags binds one flag per process field to a reading that starts
// at domain.DefaultReading, plus --schema.
type readingFlags struct {
	reading domain.ProcessReading
	schema  string
}

func addReadingFlags(cmd *cobra.Command, app *App) *readingFlags {
	rf := &readingFlags{reading: domain.DefaultReading()}
	for _, f := range allFields {
		cmd.Flags().Var(&coercedFloat{reading: &rf.reading, field: f}, flagName(f), f.Label())
	}
	cmd.Flags().StringVar(&rf.schema, "schema", string(app.schema()), "Wire schema: v1 (pulp flow) or v2 (production rate and consistency)")
	return rf
}

func (rf *readingFlags) schemaVersion() (domain.SchemaVersion, error) {
	s := domain.SchemaVersion(strings.ToLower(strings.TrimSpace(rf.schema)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid --schema %q: want v1 or v2", rf.schema)
	}
	return s, nil
}
