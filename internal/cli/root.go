package cli

import (
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to everything CLI commands and the TUI use.
type App struct {
	Advice  service.AdviceService
	History service.HistoryService // nil when history is disabled
	Client  predict.Client

	Classifier *classify.Registry
	Schema     domain.SchemaVersion
	Endpoint   string
	Target     float64
	Chart      sensitivity.ExportOptions

	// IsInteractive reports whether stdin is a terminal. The bare command
	// opens the TUI only when it returns true.
	IsInteractive func() bool
	// RunTUI replaces the bubbletea program in tests.
	RunTUI func(app *App) error

	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) classifier() *classify.Registry {
	if a.Classifier != nil {
		return a.Classifier
	}
	return classify.DefaultRegistry()
}

func (a *App) schema() domain.SchemaVersion {
	if a.Schema.Valid() {
		return a.Schema
	}
	return domain.SchemaV2
}

func (a *App) target() float64 {
	if a.Target > 0 {
		return a.Target
	}
	return sensitivity.DefaultTargetBrightness
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "d0opt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "d0opt",
		Short: "ClO₂ dose advisor for the D0 bleaching stage",
		Long: "d0opt sends D0-stage process readings to the prediction service and shows\n" +
			"the recommended ClO₂ dose, its status and the operational sensitivity.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newPredictCmd(app),
		newMetricsCmd(),
		newClassifyCmd(app),
		newHealthCmd(app),
		newHistoryCmd(app),
		newChartCmd(app),
		newTUICmd(app),
	)

	return root
}
