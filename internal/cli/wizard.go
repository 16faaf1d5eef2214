package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
)

// d0optHuhTheme returns a huh theme using the Gruvbox palette.
func d0optHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// exportFields holds the values collected by the export wizard.
type exportFields struct {
	Path  string
	Title string
}

func validatePNGPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("a file path is required")
	}
	if !strings.EqualFold(filepath.Ext(s), ".png") {
		return fmt.Errorf("file must end in .png")
	}
	return nil
}

// exportForm builds the two-step chart export form.
func exportForm(f *exportFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save chart to").
				Placeholder("sensitivity.png").
				Validate(validatePNGPath).
				Value(&f.Path),
			huh.NewInput().
				Title("Chart title").
				Description("Leave empty for the default title.").
				Value(&f.Title),
		),
	).WithTheme(d0optHuhTheme()).WithShowHelp(false)
}

// exportDone writes the chart for advice and reports the outcome as a
// one-line notice.
func exportDone(state *SharedState, advice *contract.Advice, f *exportFields) func() tea.Cmd {
	return func() tea.Cmd {
		opts := state.App.chartOptions()
		if t := strings.TrimSpace(f.Title); t != "" {
			opts.Title = t
		}
		path := strings.TrimSpace(f.Path)
		return func() tea.Msg {
			if err := writeChart(path, advice.Map, opts); err != nil {
				return cmdOutputMsg{output: formatter.FormatError(err.Error())}
			}
			return cmdOutputMsg{output: formatter.StyleGreen.Render("Chart written to " + path)}
		}
	}
}

func startExportWizard(state *SharedState, advice *contract.Advice) tea.Cmd {
	f := &exportFields{Path: "sensitivity.png"}
	return startWizardCmd("Export Chart", exportForm(f), exportDone(state, advice, f))
}
