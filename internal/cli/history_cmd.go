package cli

import (
	"errors"
	"fmt"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// errHistoryDisabled is returned by history commands when D0OPT_HISTORY is off.
var errHistoryDisabled = errors.New("recommendation history is disabled (D0OPT_HISTORY=false)")

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.History == nil {
				return errHistoryDisabled
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			records, err := app.History.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(records, app.now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recommendations to show")
	return cmd
}
