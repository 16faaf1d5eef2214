package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/spf13/cobra"
)

// writeChart renders m to path as a PNG. The file is only left behind when
// rendering succeeds.
func writeChart(path string, m sensitivity.Map, opts sensitivity.ExportOptions) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := sensitivity.RenderPNG(f, m, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("rendering chart: %w", err)
	}
	return f.Close()
}

func (a *App) chartOptions() sensitivity.ExportOptions {
	opts := a.Chart
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = sensitivity.DefaultExportOptions()
	}
	return opts
}

func newChartCmd(app *App) *cobra.Command {
	var out, title string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Request a recommendation and export its sensitivity chart as PNG",
		Args:  cobra.NoArgs,
	}
	rf := addReadingFlags(cmd, app)
	cmd.Flags().StringVarP(&out, "out", "o", "sensitivity.png", "Output PNG file")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		schema, err := rf.schemaVersion()
		if err != nil {
			return err
		}
		advice, err := app.Advice.Recommend(cmd.Context(), contract.NewAdviceRequest(schema, rf.reading))
		if err != nil {
			return err
		}

		opts := app.chartOptions()
		if title != "" {
			opts.Title = title
		}
		if err := writeChart(out, advice.Map, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s (%s mode)\n", out, advice.Map.Mode)
		return nil
	}
	return cmd
}
