package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/coverletter"
)

var _ tea.Model = Model{}

// Model shows a spinner and the latest job status while an export runs.
type Model struct {
	// Spinner is exported for test access.
	Spinner spinner.Model

	id     string
	run    ExportFunc
	styles Styles

	ctx     context.Context
	cancel  context.CancelFunc
	stateCh chan coverletter.PollState
	doneCh  chan DoneMsg

	state coverletter.PollState
	url   string
	err   error
	done  bool
}

// New creates a Model that runs the export for coverLetterID when the
// program starts. The export stops when ctx is cancelled.
func New(ctx context.Context, coverLetterID string, run ExportFunc, theme coverletter.Theme) Model {
	ctx, cancel := context.WithCancel(ctx)
	styles := NewStyles(theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Pending))
	return Model{
		Spinner: sp,
		id:      coverLetterID,
		run:     run,
		styles:  styles,
		ctx:     ctx,
		cancel:  cancel,
		stateCh: make(chan coverletter.PollState, 16),
		doneCh:  make(chan DoneMsg, 1),
	}
}

// State returns the last reported poll state.
func (m Model) State() coverletter.PollState { return m.state }

// Done reports whether the export finished.
func (m Model) Done() bool { return m.done }

// URL returns the download location after a successful export.
func (m Model) URL() string { return m.url }

// Err returns the export error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		startExport(m.ctx, m.run, m.stateCh, m.doneCh),
		listenForState(m.stateCh, m.doneCh),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if m.done {
				return m, tea.Quit
			}
			// The export returns a cancellation error as DoneMsg.
			m.cancel()
		}
		return m, nil

	case StatusMsg:
		m.state = msg.State
		return m, listenForState(m.stateCh, m.doneCh)

	case DoneMsg:
		m.done = true
		m.url = msg.URL
		m.err = msg.Err
		m.cancel()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	switch {
	case m.done && errors.Is(m.err, context.Canceled):
		b.WriteString(m.styles.Muted.Render("✗ PDF export cancelled"))
	case m.done && m.err != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("✗ %v", m.err)))
	case m.done:
		b.WriteString(m.styles.Success.Render("✓ PDF ready"))
		b.WriteString(" " + m.styles.Muted.Render(m.url))
	default:
		b.WriteString(m.Spinner.View())
		b.WriteString(" ")
		b.WriteString(m.statusLine())
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	label := m.styles.Accent.Render(m.id)
	if m.state.Attempt == 0 {
		return "Queueing PDF for " + label + m.styles.Muted.Render("...")
	}
	status := string(m.state.Status)
	if status == "" {
		status = "unknown"
	}
	return fmt.Sprintf("Generating PDF for %s %s %s",
		label,
		m.styles.Pending.Render(status),
		m.styles.Muted.Render(fmt.Sprintf("(attempt %d/%d)", m.state.Attempt, m.state.MaxAttempts)),
	)
}

// startExport runs the export and signals completion. States are dropped
// rather than blocking once ctx is done.
func startExport(ctx context.Context, run ExportFunc, stateCh chan<- coverletter.PollState, doneCh chan<- DoneMsg) tea.Cmd {
	return func() tea.Msg {
		url, err := run(ctx, func(s coverletter.PollState) {
			select {
			case stateCh <- s:
			case <-ctx.Done():
			}
		})
		close(stateCh)
		doneCh <- DoneMsg{URL: url, Err: err}
		return nil
	}
}

// listenForState waits for the next state. When the channel closes, it
// returns the DoneMsg.
func listenForState(stateCh <-chan coverletter.PollState, doneCh <-chan DoneMsg) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-stateCh
		if !ok {
			return <-doneCh
		}
		return StatusMsg{State: s}
	}
}
