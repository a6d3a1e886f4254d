package model

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FetchStatusPage loads the applier's status page in the background.
func (m *Model) FetchStatusPage() tea.Cmd {
	ctx, client := m.Ctx, m.Client
	return func() tea.Msg {
		page, err := client.StatusPage(ctx)
		return StatusPageMsg{Page: page, Err: err}
	}
}

// ListenForLogs waits for the next log entry. The controller issues it again
// after every entry; it returns nil once the channel is closed.
func (m *Model) ListenForLogs() tea.Cmd {
	ch := m.LogChannel
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return NewLogEntryMsg{Entry: entry}
	}
}
