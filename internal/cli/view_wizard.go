package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
)

var wizardKeys = []key.Binding{
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// wizardView hosts a huh form on the stack. onSubmit runs once, when the
// form reaches StateCompleted, and its Cmd runs after the view is popped.
type wizardView struct {
	title    string
	form     *huh.Form
	onSubmit func() tea.Cmd
	closed   bool
}

func newWizardView(title string, form *huh.Form, onSubmit func() tea.Cmd) *wizardView {
	return &wizardView{title: title, form: form, onSubmit: onSubmit}
}

func (v *wizardView) Init() tea.Cmd { return v.form.Init() }

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.closed {
		return v, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return v.close(msgCmd(wizardCompleteOutput(formatter.Dim("Cancelled."))))
	}

	next, cmd := v.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateAborted:
		return v.close(msgCmd(wizardCompleteOutput(formatter.Dim("Cancelled."))))
	case huh.StateCompleted:
		var after tea.Cmd
		if v.onSubmit != nil {
			after = v.onSubmit()
		}
		return v.close(msgCmd(wizardCompleteMsg{nextCmd: tea.Batch(cmd, after)}))
	}
	return v, cmd
}

// close marks the wizard finished so late messages cannot fire it twice.
func (v *wizardView) close(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	v.closed = true
	return v, cmd
}

func (v *wizardView) View() string { return v.form.View() }

func (v *wizardView) ID() ViewID               { return ViewForm }
func (v *wizardView) Title() string            { return v.title }
func (v *wizardView) ShortHelp() []key.Binding { return wizardKeys }
func (v *wizardView) CapturesInput() bool      { return true }

// startWizardCmd pushes form as a wizard. Without a form, onSubmit runs
// straight away.
func startWizardCmd(title string, form *huh.Form, onSubmit func() tea.Cmd) tea.Cmd {
	if form != nil {
		return pushView(newWizardView(title, form, onSubmit))
	}
	if onSubmit != nil {
		return onSubmit()
	}
	return nil
}
