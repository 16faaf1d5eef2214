// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and every returned Cmd is executed and fed back
// until the chain ends, so a test observes the model after all follow-up
// messages (such as a prediction result) have been applied.
//
// A Cmd that does not return within the driver timeout is dropped. Cursor
// blink ticks fall in that bucket.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may execute.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates in-process Cmds (fake predictor, sqlite
// queries) from timer-driven ones.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been drained.
	Quitting bool

	cmdTimeout time.Duration
	dropped    int
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		if timeout > 0 {
			d.cmdTimeout = timeout
		}
	}
}

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send feeds msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

func (d *Driver) press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.press(tea.KeyEnter)
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.press(tea.KeyEsc)
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.press(tea.KeyCtrlC)
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.press(tea.KeyTab)
}

func (d *Driver) PressShiftTab() {
	d.T.Helper()
	d.press(tea.KeyShiftTab)
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.press(tea.KeyUp)
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.press(tea.KeyDown)
}

func (d *Driver) PressBackspace() {
	d.T.Helper()
	d.press(tea.KeyBackspace)
}

// ClearInput sends ctrl+u, which empties a focused textinput.
func (d *Driver) ClearInput() {
	d.T.Helper()
	d.press(tea.KeyCtrlU)
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// RequireViewContains fails the test unless every part is in the view.
func (d *Driver) RequireViewContains(parts ...string) {
	d.T.Helper()
	view := d.View()
	for _, p := range parts {
		if !strings.Contains(view, p) {
			d.T.Fatalf("view does not contain %q:\n%s", p, view)
		}
	}
}

// Dropped counts Cmds abandoned for exceeding the timeout.
func (d *Driver) Dropped() int {
	return d.dropped
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth %d reached", MaxDrainDepth)
		return
	}

	msg, ok := d.exec(cmd)
	if !ok {
		d.dropped++
		return
	}
	if msg == nil || isBlink(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(m)
		d.Model = updated
	default:
		updated, next := d.Model.Update(msg)
		d.Model = updated
		d.drain(next, depth+1)
	}
}

func (d *Driver) exec(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d.cmdTimeout):
		return nil, false
	}
}

// isBlink matches the unexported cursor blink message types of bubbles.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
