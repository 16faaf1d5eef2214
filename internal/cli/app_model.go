package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
)

// appModel is the root model of the dashboard TUI. Prediction results are
// delivered to the shared controller whatever view is showing, so leaving
// the dashboard never loses a completion.
type appModel struct {
	state    *SharedState
	stack    viewStack
	notice   string
	quitting bool
}

func newAppModel(app *App) appModel {
	state := newSharedState(app)
	return appModel{
		state: state,
		stack: viewStack{newDashboardView(state)},
	}
}

func (m appModel) Init() tea.Cmd {
	if v := m.stack.top(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height

	case adviceResultMsg:
		m.state.Controller.Complete(msg.ticket, msg.advice, msg.err)
		return m, nil

	case pushViewMsg:
		m.notice = ""
		m.stack.push(msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.stack.pop()
		return m, nil

	case wizardCompleteMsg:
		m.notice = ""
		m.stack.pop()
		return m, msg.nextCmd

	case cmdOutputMsg:
		m.notice = msg.output
		return m, nil
	}
	return m, m.updateTop(msg)
}

func (m appModel) onKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.Type == tea.KeyCtrlC {
		return m.quit()
	}
	m.notice = ""

	if capturesInput(m.stack.top()) {
		return m, m.updateTop(k)
	}
	switch {
	case k.String() == "q":
		return m.quit()
	case k.Type == tea.KeyEsc:
		m.stack.pop()
		return m, nil
	}
	return m, m.updateTop(k)
}

// quit abandons any in-flight request before exiting.
func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.state.Controller.Cancel()
	m.quitting = true
	return m, tea.Quit
}

func (m *appModel) updateTop(msg tea.Msg) tea.Cmd {
	v := m.stack.top()
	if v == nil {
		return nil
	}
	next, cmd := v.Update(msg)
	m.stack.replaceTop(next.(View))
	return cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.header()}
	if m.notice != "" {
		parts = append(parts, m.notice)
	}
	if v := m.stack.top(); v != nil {
		parts = append(parts, v.View())
	}
	parts = append(parts, m.footer())
	frame := strings.Join(parts, "\n")

	// Alt-screen redraws leave stale rows behind unless the frame fills
	// the terminal.
	if h := m.state.Height; h > 0 {
		frame = lipgloss.NewStyle().Height(h).Render(frame)
	}
	return frame
}

func (m appModel) rule() string {
	return formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
}

func (m appModel) header() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("d0opt"))
	if crumbs := m.stack.breadcrumb(); crumbs != "" {
		b.WriteString(formatter.Dim(" › " + crumbs))
	}
	b.WriteString("  " + formatter.Dim("[") +
		formatter.StyleBlue.Render(string(m.state.Controller.Schema())) +
		formatter.Dim("]"))
	return b.String() + "\n" + m.rule()
}

func (m appModel) footer() string {
	top := m.stack.top()
	var hints []string
	if top != nil {
		hints = keyHints(top.ShortHelp())
	}
	if len(m.stack) > 1 && !capturesInput(top) {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	hints = append(hints, formatter.Dim("ctrl+c: quit"))
	return m.rule() + "\n" + strings.Join(hints, "  ")
}

func keyHints(bindings []key.Binding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		out[i] = formatter.Dim(h.Key + ": " + h.Desc)
	}
	return out
}
