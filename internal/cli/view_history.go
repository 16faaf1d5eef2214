package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

const historyViewLimit = 50

type historyLoadedMsg struct {
	records []*domain.RecommendationRecord
	err     error
}

// historyView lists the most recent recommendations in a scrollable pane.
type historyView struct {
	state   *SharedState
	vp      viewport.Model
	loading bool
	err     error
	records []*domain.RecommendationRecord
}

func newHistoryView(state *SharedState) *historyView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	return &historyView{state: state, vp: vp, loading: true}
}

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }

func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *historyView) Init() tea.Cmd {
	return v.load()
}

func (v *historyView) load() tea.Cmd {
	svc := v.state.App.History
	return func() tea.Msg {
		if svc == nil {
			return historyLoadedMsg{err: errHistoryDisabled}
		}
		recs, err := svc.Recent(context.Background(), historyViewLimit)
		return historyLoadedMsg{records: recs, err: err}
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.records = msg.records
		v.vp.SetContent(v.content())
		v.vp.GotoTop()
		return v, nil

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			v.loading = true
			return v, v.load()
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *historyView) content() string {
	if v.err != nil {
		return formatter.FormatError(v.err.Error())
	}
	return formatter.FormatHistory(v.records, v.state.App.now())
}

func (v *historyView) View() string {
	if v.loading {
		return formatter.Dim("Loading history...")
	}
	return v.vp.View()
}
