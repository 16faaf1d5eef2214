package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID names a screen on the navigation stack.
type ViewID int

const (
	ViewDashboard ViewID = iota
	ViewHistory
	ViewForm
)

// View is a screen the appModel can stack. Title feeds the breadcrumb and
// ShortHelp the status bar.
type View interface {
	tea.Model
	ID() ViewID
	Title() string
	ShortHelp() []key.Binding
}

type (
	pushViewMsg struct{ view View }
	popViewMsg  struct{}

	// cmdOutputMsg sets the notice line, which clears on the next key.
	cmdOutputMsg struct{ output string }

	// wizardCompleteMsg closes the top wizard and then runs nextCmd.
	wizardCompleteMsg struct{ nextCmd tea.Cmd }
)

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func pushView(v View) tea.Cmd { return msgCmd(pushViewMsg{view: v}) }

func outputCmd(notice string) tea.Cmd { return msgCmd(cmdOutputMsg{output: notice}) }

func wizardCompleteOutput(notice string) tea.Msg {
	return wizardCompleteMsg{nextCmd: outputCmd(notice)}
}

// inputCapturer is implemented by views with their own text entry. They
// receive every key, esc and q included.
type inputCapturer interface {
	CapturesInput() bool
}

func capturesInput(v View) bool {
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}

// viewStack is the navigation stack. The bottom view is never popped.
type viewStack []View

func (s viewStack) top() View {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s viewStack) replaceTop(v View) {
	if len(s) > 0 {
		s[len(s)-1] = v
	}
}

func (s *viewStack) push(v View) { *s = append(*s, v) }

func (s *viewStack) pop() {
	if len(*s) > 1 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s viewStack) breadcrumb() string {
	titles := make([]string, 0, len(s))
	for _, v := range s {
		if t := v.Title(); t != "" {
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, " › ")
}
