package cli

import (
	"fmt"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	reading := domain.DefaultReading()

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute pulp flow and tower retention time locally",
		Long: "Flow is production rate × 100 / (0.9 × consistency) in m³/h; retention is\n" +
			"450 m³ / flow × 60 in minutes. Passing --pulp-flow skips the flow formula.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := reading.MetricsFor(domain.SchemaV2)
			if cmd.Flags().Changed(flagName(domain.FieldPulpFlow)) {
				m = reading.MetricsFor(domain.SchemaV1)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMetrics(m))
			return nil
		},
	}
	for _, f := range []domain.Field{domain.FieldProductionRate, domain.FieldConsistency, domain.FieldPulpFlow} {
		cmd.Flags().Var(&coercedFloat{reading: &reading, field: f}, flagName(f), f.Label())
	}
	return cmd
}
