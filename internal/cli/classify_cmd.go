package cli

import (
	"fmt"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/spf13/cobra"
)

func newClassifyCmd(app *App) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "classify [CODE]",
		Short: "Explain a control status code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := app.classifier()
			out := cmd.OutOrStdout()
			if list || len(args) == 0 {
				rows := [][]string{}
				for _, c := range classify.Categories {
					for _, code := range reg.Codes(c) {
						cl := reg.Classify(code)
						rows = append(rows, []string{code, c.String(), formatter.SeverityStyle(cl.Severity).Render(string(cl.Severity)), cl.Label})
					}
				}
				fmt.Fprint(out, formatter.RenderTable(formatter.Cols("CODE", "CATEGORY", "SEVERITY", "LABEL"), rows))
				return nil
			}
			fmt.Fprint(out, formatter.FormatClassification(reg.Classify(args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List every known code")
	return cmd
}
