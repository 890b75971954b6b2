// Package bubbletea provides a Bubble Tea progress view for PDF export.
package bubbletea

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/coverletter"
)

// ExportFunc runs an export. onState is called after every status check.
// The function blocks until the export finishes or ctx is cancelled, and
// returns the final download location.
type ExportFunc func(ctx context.Context, onState func(coverletter.PollState)) (string, error)

// Run runs the progress view inline until the export finishes. It returns
// the download location or the export error. Cancelling ctx stops the
// export and the program.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (string, error) {
	p := tea.NewProgram(m, opts...)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()
	final, err := p.Run()
	close(done)
	if err != nil {
		return "", fmt.Errorf("bubbletea: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("bubbletea: unexpected model %T", final)
	}
	if !fm.Done() {
		if err := context.Cause(ctx); err != nil {
			return "", err
		}
		return "", errors.New("bubbletea: export did not finish")
	}
	return fm.URL(), fm.Err()
}

// StatusMsg carries the state after one status check.
type StatusMsg struct {
	State coverletter.PollState
}

// DoneMsg signals that the export finished.
type DoneMsg struct {
	URL string
	Err error
}
