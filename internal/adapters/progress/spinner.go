package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

type stageInfo struct {
	name      string
	startTime time.Time
	endTime   time.Time
}

// SpinnerSink shows a spinner with the trail of stages a run has passed through.
// When not interactive it prints one line per event instead.
type SpinnerSink struct {
	out         io.Writer
	interactive bool

	mu      sync.Mutex
	spinner *spinner.Spinner
	stages  []stageInfo
}

// NewSpinnerSink creates a progress sink writing to out
func NewSpinnerSink(out io.Writer, interactive bool) *SpinnerSink {
	return &SpinnerSink{out: out, interactive: interactive}
}

// OnProgress records the event's stage and refreshes the display
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Stage != "" {
		s.enterStage(event.Stage)
	}

	if !s.interactive {
		if event.Message != "" {
			fmt.Fprintln(s.out, event.Message)
		}
		return
	}

	if !event.Spinner {
		s.stopSpinner()
		return
	}

	if s.spinner == nil {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(s.out))
		s.spinner.HideCursor = false
		_ = s.spinner.Color("cyan", "bold")
	}
	s.spinner.Suffix = " " + s.trail() + "  " + event.Message
	if !s.spinner.Active() {
		s.spinner.Start()
	}
}

// Info prints an info message above the spinner
func (s *SpinnerSink) Info(message string) {
	s.print(color.New(color.FgCyan), message)
}

// Error prints an error message above the spinner
func (s *SpinnerSink) Error(message string) {
	s.print(color.New(color.FgRed), message)
}

// Stop halts the spinner, if any
func (s *SpinnerSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSpinner()
}

func (s *SpinnerSink) print(c *color.Color, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := s.spinner != nil && s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}
	c.Fprintln(s.out, message)
	if wasActive {
		s.spinner.Start()
	}
}

func (s *SpinnerSink) stopSpinner() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

func (s *SpinnerSink) enterStage(name string) {
	now := time.Now()
	if n := len(s.stages); n > 0 {
		if s.stages[n-1].name == name {
			return
		}
		s.stages[n-1].endTime = now
	}
	s.stages = append(s.stages, stageInfo{name: name, startTime: now})
}

// trail renders "✓ funding (1.2s) → ● broadcasting"
func (s *SpinnerSink) trail() string {
	parts := make([]string, 0, len(s.stages))
	for _, st := range s.stages {
		if st.endTime.IsZero() {
			parts = append(parts, fmt.Sprintf("● %s", color.YellowString(st.name)))
			continue
		}
		parts = append(parts, fmt.Sprintf("✓ %s (%s)",
			color.GreenString(st.name), st.endTime.Sub(st.startTime).Round(100*time.Millisecond)))
	}
	return strings.Join(parts, " → ")
}

// Stages returns the stage names seen so far, in order
func (s *SpinnerSink) Stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.stages))
	for i, st := range s.stages {
		names[i] = st.name
	}
	return names
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
