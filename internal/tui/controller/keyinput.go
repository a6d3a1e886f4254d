package controller

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/tui/model"
)

// handleKeyMsgInputMode handles keys while the hash or lock id input is
// focused. Enter commits the value, esc discards it.
func handleKeyMsgInputMode(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	input := &m.HashInput
	if m.CurrentAppMode == model.ModeLockInput {
		input = &m.LockInput
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC:
		m.CurrentAppMode = model.ModeQuitting
		m.QuitApp = true
		return m, tea.Quit

	case tea.KeyEnter:
		value := strings.TrimSpace(input.Value())
		if m.CurrentAppMode == model.ModeLockInput {
			m.Dashboard.SetLockID(value)
			LogDebug(m, "Lock id set to %q", value)
		} else {
			m.Navigate(value)
		}
		input.Blur()
		m.CurrentAppMode = model.ModeMainDashboard
		return m, nil

	case tea.KeyEsc:
		input.Blur()
		input.Reset()
		m.CurrentAppMode = model.ModeMainDashboard
		return m, nil
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(keyMsg)
	return m, cmd
}
