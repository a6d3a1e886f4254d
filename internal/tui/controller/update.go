package controller

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/api"
	"applierctl/internal/tui/components"
	"applierctl/internal/tui/model"
	"applierctl/internal/tui/view"
)

// Update is the central message routing function of the TUI. It directs each
// message to its handler based on the message type and the current mode.
func Update(msg tea.Msg, m *model.Model) (*model.Model, tea.Cmd) {
	switch msg.(type) {
	case spinner.TickMsg, tea.MouseMsg, model.NewLogEntryMsg, model.TaskMsg:
	default:
		LogDebug(m, "Received msg: %T", msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.CurrentAppMode == model.ModeHashInput || m.CurrentAppMode == model.ModeLockInput {
			return handleKeyMsgInputMode(m, msg)
		}
		return handleKeyMsgGlobal(m, msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case model.TaskMsg:
		if msg.Run != nil {
			msg.Run()
		}
		m.RefreshDetail()
		return m, m.TakeStatusCmd()

	case model.StatusPageMsg:
		return handleStatusPageMsg(m, msg)

	case model.NewLogEntryMsg:
		model.AddLogEntry(m, msg.Entry)
		if m.CurrentAppMode == model.ModeLogOverlay {
			m.LogViewport.SetContent(view.LogContent(m.ActivityLog))
			m.LogViewport.GotoBottom()
		}
		return m, m.ListenForLogs()

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""
		if m.StatusBarClearCancel != nil {
			close(m.StatusBarClearCancel)
			m.StatusBarClearCancel = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		if m.CurrentAppMode == model.ModeLogOverlay {
			m.LogViewport, cmd = m.LogViewport.Update(msg)
		} else {
			m.DetailViewport, cmd = m.DetailViewport.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func handleStatusPageMsg(m *model.Model, msg model.StatusPageMsg) (*model.Model, tea.Cmd) {
	if m.CurrentAppMode == model.ModeInitializing {
		m.CurrentAppMode = model.ModeMainDashboard
	}
	if m.LastAppMode == model.ModeInitializing {
		m.LastAppMode = model.ModeMainDashboard
	}

	if msg.Err != nil {
		m.PageErr = msg.Err
		LogError(msg.Err, "Failed to load status page")
		return m, m.SetStatusMessage("Failed to load status page: "+api.ErrorDetail(msg.Err), components.StatusBarError, model.StatusMessageTTL)
	}

	if err := m.ApplyStatusPage(msg.Page); err != nil {
		m.PageErr = err
		LogError(err, "Failed to parse status page")
		return m, m.SetStatusMessage("Failed to parse status page", components.StatusBarError, model.StatusMessageTTL)
	}
	return m, nil
}
