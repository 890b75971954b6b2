package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// StartExport exports the command that runs the export for testing.
func StartExport(m Model) tea.Cmd {
	return startExport(m.ctx, m.run, m.stateCh, m.doneCh)
}

// ListenForState exports the state listener for testing.
func ListenForState(m Model) tea.Cmd {
	return listenForState(m.stateCh, m.doneCh)
}
