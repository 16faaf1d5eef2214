package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/dashboard"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// ── messages ─────────────────────────────────────────────────────────────────

// adviceResultMsg carries the outcome of one submission back to the
// controller. Outcomes of superseded tickets are dropped there.
type adviceResultMsg struct {
	ticket *dashboard.Ticket
	advice *contract.Advice
	err    error
}

// ── view ─────────────────────────────────────────────────────────────────────

const fieldLabelWidth = 26

// dashboardView is the home screen: the reading form on top, live metrics
// below it, then the last recommendation and its sensitivity map.
type dashboardView struct {
	state  *SharedState
	fields []domain.Field
	inputs []textinput.Model
	focus  int
}

func newDashboardView(state *SharedState) *dashboardView {
	v := &dashboardView{state: state}
	v.rebuildInputs()
	return v
}

// rebuildInputs recreates one input per field of the current schema,
// prefilled from the controller's reading.
func (v *dashboardView) rebuildInputs() {
	vm := v.state.Controller.View()
	v.fields = make([]domain.Field, 0, len(vm.Fields))
	v.inputs = make([]textinput.Model, 0, len(vm.Fields))
	for _, fv := range vm.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 14
		ti.Placeholder = "0"
		ti.SetValue(formatInput(fv.Value))
		v.fields = append(v.fields, fv.Field)
		v.inputs = append(v.inputs, ti)
	}
	if v.focus >= len(v.inputs) {
		v.focus = 0
	}
	if len(v.inputs) > 0 {
		v.inputs[v.focus].Focus()
	}
}

// syncInputs rewrites every input with the value the controller holds, so
// coerced input shows what is actually sent.
func (v *dashboardView) syncInputs() {
	r := v.state.Controller.Reading()
	for i, f := range v.fields {
		val, _ := r.Get(f)
		v.inputs[i].SetValue(formatInput(val))
	}
}

func formatInput(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func (v *dashboardView) ID() ViewID          { return ViewDashboard }
func (v *dashboardView) Title() string       { return "Dashboard" }
func (v *dashboardView) CapturesInput() bool { return true }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "schema")),
		key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "history")),
		key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, v.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "enter":
		return v, v.submit()
	case "esc":
		v.state.Controller.Cancel()
		return v, nil
	case "tab", "down":
		return v, v.moveFocus(1)
	case "shift+tab", "up":
		return v, v.moveFocus(-1)
	case "ctrl+t":
		return v, v.toggleSchema()
	case "ctrl+o":
		if v.state.App.History == nil {
			return v, outputCmd(formatter.Dim(errHistoryDisabled.Error()))
		}
		return v, pushView(newHistoryView(v.state))
	case "ctrl+e":
		advice := v.state.Controller.Advice()
		if advice == nil {
			return v, outputCmd(formatter.Dim("No recommendation to export yet."))
		}
		return v, startExportWizard(v.state, advice)
	}

	cmd := v.updateFocused(msg)
	if len(v.inputs) > 0 {
		// Live edits keep the derived metrics current.
		_ = v.state.Controller.SetField(v.fields[v.focus], v.inputs[v.focus].Value())
	}
	return v, cmd
}

func (v *dashboardView) updateFocused(msg tea.Msg) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *dashboardView) moveFocus(delta int) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	return v.inputs[v.focus].Focus()
}

// submit commits every input, then starts a request that supersedes any
// one still in flight.
func (v *dashboardView) submit() tea.Cmd {
	c := v.state.Controller
	for i, f := range v.fields {
		_ = c.SetField(f, v.inputs[i].Value())
	}
	v.syncInputs()

	t := c.Begin(context.Background())
	return func() tea.Msg {
		advice, err := c.Run(t)
		return adviceResultMsg{ticket: t, advice: advice, err: err}
	}
}

func (v *dashboardView) toggleSchema() tea.Cmd {
	c := v.state.Controller
	for i, f := range v.fields {
		_ = c.SetField(f, v.inputs[i].Value())
	}
	next := domain.SchemaV2
	if c.Schema() == domain.SchemaV2 {
		next = domain.SchemaV1
	}
	c.SetSchema(next)
	v.focus = 0
	v.rebuildInputs()
	return outputCmd(formatter.Dim("Schema switched to " + string(next) + "."))
}

func (v *dashboardView) View() string {
	vm := v.state.Controller.View()
	var b strings.Builder

	b.WriteString(formatter.Header("Process Reading") + "\n")
	for i, f := range v.fields {
		label := f.Label()
		if i == v.focus {
			label = formatter.StyleHeader.Render("› " + label)
		} else {
			label = "  " + formatter.Dim(label)
		}
		pad := fieldLabelWidth - lipgloss.Width(label)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(label + strings.Repeat(" ", pad) + v.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatter.FormatMetrics(vm.Metrics))
	b.WriteString("\n")

	if vm.Loading {
		b.WriteString(formatter.StyleYellow.Render("Analyzing...") + "\n")
	}
	if vm.Error != "" {
		b.WriteString(formatter.FormatError(vm.Error) + "\n")
	}

	if vm.HasAdvice() {
		b.WriteString(formatter.FormatAdvice(vm.Advice, v.state.App.target()) + "\n")
		b.WriteString(formatter.FormatSensitivity(vm.Advice.Map))
	} else if !vm.Loading {
		b.WriteString(formatter.Dim("Enter a reading and press enter to request a recommendation.") + "\n")
	}
	return b.String()
}
