package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// waitSpinner is the frame set shared by the CLI and the dashboard.
var waitSpinner = spinner.Dot

// Spinner draws an "Analyzing..." style line on w while a prediction is in
// flight. The line is erased on Stop.
type Spinner struct {
	w     io.Writer
	label string
	anim  spinner.Spinner

	stopOnce sync.Once
	quit     chan struct{}
	exited   chan struct{}
}

func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		anim:   waitSpinner,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (s *Spinner) frame(n int) string {
	f := s.anim.Frames[n%len(s.anim.Frames)]
	return fmt.Sprintf("\r  %s %s", StylePurple.Render(f), Dim(s.label))
}

func (s *Spinner) Start() {
	interval := s.anim.FPS
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	go func() {
		defer close(s.exited)
		tick := time.NewTicker(interval)
		defer tick.Stop()

		n := 0
		fmt.Fprint(s.w, s.frame(n))
		for {
			select {
			case <-s.quit:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-tick.C:
				n++
				fmt.Fprint(s.w, s.frame(n))
			}
		}
	}()
}

// Stop erases the line and blocks until the goroutine exits. Repeat calls
// are no-ops.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.exited
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(w io.Writer, label string) func() {
	s := NewSpinner(w, label)
	s.Start()
	return s.Stop
}
