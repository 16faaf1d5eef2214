package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/spf13/cobra"
)

func newPredictCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a dose recommendation for a process reading",
		Example: "  d0opt predict --kappa 9.2 --current-dose 24\n" +
			"  d0opt predict --schema v1 --pulp-flow 780 --json",
		Args: cobra.NoArgs,
	}
	rf := addReadingFlags(cmd, app)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the advice as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		schema, err := rf.schemaVersion()
		if err != nil {
			return err
		}

		var stop func()
		if !asJSON && app.interactive() {
			stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing...")
		}
		advice, err := app.Advice.Recommend(cmd.Context(), contract.NewAdviceRequest(schema, rf.reading))
		if stop != nil {
			stop()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeAdviceJSON(out, advice)
		}
		fmt.Fprintln(out, formatter.FormatAdvice(advice, app.target()))
		fmt.Fprintln(out)
		fmt.Fprint(out, formatter.FormatMetrics(advice.Metrics))
		fmt.Fprintln(out)
		fmt.Fprint(out, formatter.FormatSensitivity(advice.Map))
		return nil
	}
	return cmd
}

type sweepJSON struct {
	Kappa       float64 `json:"kappa"`
	OptimalLine float64 `json:"optimal_line"`
	CurrentLine float64 `json:"current_line"`
}

type pointJSON struct {
	Name       string  `json:"name"`
	Brightness float64 `json:"brightness"`
	Dose       float64 `json:"dose"`
}

type adviceJSON struct {
	RequestID string `json:"request_id"`
	Schema    string `json:"schema"`

	RecommendedDose          float64  `json:"recommended_dose"`
	CurrentDose              float64  `json:"current_dose"`
	Delta                    float64  `json:"delta"`
	Direction                string   `json:"direction"`
	DeviationPercent         *float64 `json:"deviation_percent"`
	KOptimal                 float64  `json:"k_optimal"`
	KCurrent                 float64  `json:"k_current"`
	EstimatedOutletCurrent   float64  `json:"estimated_outlet_current"`
	PredictedOutletOptimized *float64 `json:"predicted_outlet_optimized,omitempty"`
	ControlStatus            string   `json:"control_status"`
	Category                 string   `json:"category"`
	Severity                 string   `json:"severity"`
	Label                    string   `json:"label"`
	Reason                   string   `json:"reason,omitempty"`

	// Local derived metrics; null when not computable.
	Flow      *float64 `json:"flow"`
	Retention *float64 `json:"retention"`

	MapMode   string      `json:"map_mode"`
	Points    []pointJSON `json:"points,omitempty"`
	Sweep     []sweepJSON `json:"sweep,omitempty"`
	Highlight *sweepJSON  `json:"highlight,omitempty"`
}

func finitePtr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func writeAdviceJSON(w io.Writer, a *contract.Advice) error {
	res := a.Result
	pct, pctOK := res.DeviationPercent()
	out := adviceJSON{
		RequestID:                a.RequestID,
		Schema:                   string(a.Schema),
		RecommendedDose:          res.RecommendedDose,
		CurrentDose:              res.CurrentDose,
		Delta:                    res.Delta,
		Direction:                string(a.Direction()),
		DeviationPercent:         finitePtr(pct, pctOK),
		KOptimal:                 res.KOptimal,
		KCurrent:                 res.KCurrent,
		EstimatedOutletCurrent:   res.EstimatedOutletCurrent,
		PredictedOutletOptimized: res.PredictedOutletOptimized,
		ControlStatus:            res.ControlStatus,
		Category:                 a.Classification.Category.String(),
		Severity:                 string(a.Classification.Severity),
		Label:                    a.Classification.Label,
		Reason:                   res.Reason,
		Flow:                     finitePtr(a.Metrics.Flow, a.Metrics.FlowValid()),
		Retention:                finitePtr(a.Metrics.Retention, a.Metrics.RetentionValid()),
		MapMode:                  string(a.Map.Mode),
	}
	for _, p := range a.Map.Points {
		out.Points = append(out.Points, pointJSON{Name: p.Name, Brightness: p.Brightness, Dose: p.Dose})
	}
	for _, p := range a.Map.Sweep {
		out.Sweep = append(out.Sweep, sweepJSON(p))
	}
	if a.Map.Highlight != nil {
		h := sweepJSON(*a.Map.Highlight)
		out.Highlight = &h
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
