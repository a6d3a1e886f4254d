package controller

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"applierctl/internal/dashboard"
	"applierctl/internal/tui/components"
	"applierctl/internal/tui/model"
	"applierctl/internal/tui/view"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// handleKeyMsgGlobal processes key presses outside of the input fields.
func handleKeyMsgGlobal(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if key.Matches(keyMsg, m.Keys.Quit) {
		m.CurrentAppMode = model.ModeQuitting
		m.QuitApp = true
		return m, tea.Quit
	}

	// --- Overlay-specific key handling --------------------------------------
	if m.CurrentAppMode == model.ModeLogOverlay {
		switch {
		case key.Matches(keyMsg, m.Keys.ToggleLog), keyMsg.String() == "esc":
			m.CurrentAppMode = m.LastAppMode
			return m, nil
		case key.Matches(keyMsg, m.Keys.Copy):
			return m, copyToClipboard(m, strings.Join(m.ActivityLog, "\n"), "Logs")
		default:
			var cmd tea.Cmd
			m.LogViewport, cmd = m.LogViewport.Update(keyMsg)
			return m, cmd
		}
	}

	if m.CurrentAppMode == model.ModeHelpOverlay {
		if key.Matches(keyMsg, m.Keys.Help) || keyMsg.String() == "esc" {
			m.CurrentAppMode = m.LastAppMode
		}
		return m, nil
	}

	if m.CurrentAppMode == model.ModeInitializing {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Help):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeHelpOverlay
		return m, nil

	case key.Matches(keyMsg, m.Keys.ToggleLog):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeLogOverlay
		m.LogViewport.SetContent(view.LogContent(m.ActivityLog))
		m.LogViewport.GotoBottom()
		return m, nil

	case key.Matches(keyMsg, m.Keys.ToggleDebug):
		m.DebugMode = !m.DebugMode
		return m, m.SetStatusMessage(fmt.Sprintf("Debug mode: %t", m.DebugMode), components.StatusBarInfo, model.StatusMessageTTL)

	case key.Matches(keyMsg, m.Keys.Reload):
		return m, tea.Batch(
			m.SetStatusMessage("Reloading status page...", components.StatusBarInfo, model.StatusMessageTTL),
			m.FetchStatusPage(),
		)
	}

	if !m.PageReady {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case key.Matches(keyMsg, m.Keys.Down):
		if m.Cursor < len(m.Entries())-1 {
			m.Cursor++
		}
		return m, nil

	case key.Matches(keyMsg, m.Keys.Enter):
		if entry, ok := m.SelectedEntry(); ok {
			m.Navigate(entry.Key)
		}
		return m, nil

	case key.Matches(keyMsg, m.Keys.Esc):
		m.Navigate(m.Parent())
		return m, nil

	case key.Matches(keyMsg, m.Keys.Plan):
		return m, forceRun(m, true)

	case key.Matches(keyMsg, m.Keys.Apply):
		return m, forceRun(m, false)

	case key.Matches(keyMsg, m.Keys.LockID):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeLockInput
		m.LockInput.SetValue(m.Dashboard.LockID())
		m.LockInput.CursorEnd()
		return m, m.LockInput.Focus()

	case key.Matches(keyMsg, m.Keys.Hash):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeHashInput
		m.HashInput.SetValue(m.Hash)
		m.HashInput.CursorEnd()
		return m, m.HashInput.Focus()

	case key.Matches(keyMsg, m.Keys.Dismiss):
		m.Dashboard.Alerts().Close()
		return m, nil

	case key.Matches(keyMsg, m.Keys.Copy):
		if m.DetailContent == "" {
			return m, m.SetStatusMessage("Nothing to copy", components.StatusBarWarning, model.StatusMessageTTL)
		}
		return m, copyToClipboard(m, m.DetailContent, "Module detail")

	case key.Matches(keyMsg, m.Keys.PageUp), key.Matches(keyMsg, m.Keys.PageDown):
		var cmd tea.Cmd
		m.DetailViewport, cmd = m.DetailViewport.Update(keyMsg)
		return m, cmd
	}

	return m, nil
}

// forceRun clicks the plan or apply control of the targeted module, exactly
// as the browser would.
func forceRun(m *model.Model, planOnly bool) tea.Cmd {
	sel, ok := m.TargetModule()
	if !ok {
		return m.SetStatusMessage("Select a module first", components.StatusBarWarning, model.StatusMessageTTL)
	}

	control := m.Dashboard.Control(sel, planOnly)
	if control == nil {
		return m.SetStatusMessage("No run control for "+sel.String(), components.StatusBarWarning, model.StatusMessageTTL)
	}
	if _, disabled := control.Attr(dashboard.AttrDisabled); disabled {
		return m.SetStatusMessage("Run controls are disabled, press ctrl+r to reload", components.StatusBarWarning, model.StatusMessageTTL)
	}

	kind := "apply"
	if planOnly {
		kind = "plan"
	}
	m.Dashboard.Click(control)
	return m.SetStatusMessage(fmt.Sprintf("Requesting %s of %s...", kind, sel), components.StatusBarInfo, model.StatusMessageTTL)
}

func copyToClipboard(m *model.Model, content, what string) tea.Cmd {
	if err := clipboardWrite(content); err != nil {
		LogError(err, "Failed to copy %s", strings.ToLower(what))
		return m.SetStatusMessage("Copy failed", components.StatusBarError, model.StatusMessageTTL)
	}
	return m.SetStatusMessage(what+" copied to clipboard", components.StatusBarSuccess, model.StatusMessageTTL)
}
