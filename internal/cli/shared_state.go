package cli

import "github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/dashboard"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Controller owns the form, the submission lifecycle and the last advice.
	Controller *dashboard.Controller

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	return &SharedState{
		App:        app,
		Controller: dashboard.New(app.Advice, app.schema()),
	}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
