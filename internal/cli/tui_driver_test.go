package cli

import (
	"testing"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/dashboard"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, controller) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App. It constructs the
// appModel, sets the terminal size and drains Init.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 60))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// PressCtrl sends ctrl plus the given lowercase letter.
func (d *TestDriver) PressCtrl(letter rune) {
	d.T.Helper()
	d.Send(ctrlKey(letter))
}

// Retype focuses the field at index (tabbing from the first field),
// replaces its text, then returns focus to the first field.
func (d *TestDriver) Retype(index int, text string) {
	d.T.Helper()
	for range index {
		d.PressTab()
	}
	d.ClearInput()
	d.Type(text)
	for range index {
		d.PressShiftTab()
	}
}

// ── inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().stack.top()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// StackDepth returns the number of views on the stack.
func (d *TestDriver) StackDepth() int {
	return len(d.appModel().stack)
}

// Controller returns the dashboard controller shared by all views.
func (d *TestDriver) Controller() *dashboard.Controller {
	return d.appModel().state.Controller
}

// LastOutput returns the transient notice under the header.
func (d *TestDriver) LastOutput() string {
	return d.appModel().notice
}
