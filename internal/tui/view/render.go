package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"applierctl/internal/dashboard"
	"applierctl/internal/tui/components"
	"applierctl/internal/tui/design"
	"applierctl/internal/tui/model"
	"applierctl/internal/tui/utils"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	minNavigatorWidth = 24
	maxNavigatorWidth = 44
)

// Render draws the whole screen for the current model state.
func Render(m *model.Model) string {
	if m.QuitApp {
		return "Bye.\n"
	}

	width, height := m.Width, m.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	header := renderHeader(m, width)
	alerts := renderAlerts(m, width)
	footer := renderFooter(m, width)
	status := renderStatusBar(m, width)

	bodyHeight := height -
		lipgloss.Height(header) -
		lipgloss.Height(footer) -
		lipgloss.Height(status)
	if alerts != "" {
		bodyHeight -= lipgloss.Height(alerts)
	}
	bodyHeight = max(bodyHeight, design.MinPanelHeight)

	var body string
	switch m.CurrentAppMode {
	case model.ModeHelpOverlay:
		body = renderHelpOverlay(m, width, bodyHeight)
	case model.ModeLogOverlay:
		body = renderLogOverlay(m, width, bodyHeight)
	default:
		body = renderDashboard(m, width, bodyHeight)
	}

	parts := []string{header}
	if alerts != "" {
		parts = append(parts, alerts)
	}
	parts = append(parts, body, footer, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHeader(m *model.Model, width int) string {
	title := "applierctl"
	if m.ServerURL != "" {
		title += "  " + m.ServerURL
	}
	hash := "#" + m.Hash
	gap := width - design.HeaderStyle.GetHorizontalPadding() - lipgloss.Width(title) - lipgloss.Width(hash)
	line := title
	if gap > 0 {
		line += strings.Repeat(" ", gap) + hash
	}
	return design.HeaderStyle.Width(width).MaxWidth(width).Render(line)
}

// renderAlerts draws the banners of the alert container, newest last.
func renderAlerts(m *model.Model, width int) string {
	if m.Dashboard == nil || m.Doc == nil {
		return ""
	}

	var lines []string
	for _, a := range m.Dashboard.Alerts().Alerts() {
		text := m.Doc.TextOf(dashboard.IDSelector(a.ID))
		style := design.AlertWarningStyle
		if a.Success {
			style = design.AlertSuccessStyle
		}
		inner := width - style.GetHorizontalFrameSize()
		var wrapped []string
		for _, l := range strings.Split(text, "\n") {
			wrapped = append(wrapped, utils.TruncateString(l, inner))
		}
		lines = append(lines, style.Render(strings.Join(wrapped, "\n")))
	}
	return strings.Join(lines, "\n")
}

// renderFooter shows the lock id and the state of the run controls, or the
// focused input field.
func renderFooter(m *model.Model, width int) string {
	switch m.CurrentAppMode {
	case model.ModeHashInput:
		return design.InputFocusedStyle.Width(width - 2).Render(m.HashInput.View())
	case model.ModeLockInput:
		return design.InputFocusedStyle.Width(width - 2).Render(m.LockInput.View())
	}

	if m.Dashboard == nil || !m.PageReady {
		return ""
	}

	lockID := m.Dashboard.LockID()
	if lockID == "" {
		lockID = design.DimStyle.Render("(none)")
	}
	controls := design.ButtonStyle.Render("controls enabled")
	if m.Dashboard.Trigger().ControlsDisabled() {
		controls = design.ButtonDisabledStyle.Render("controls disabled")
	}
	line := fmt.Sprintf(" Lock ID: %s   %s", lockID, controls)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func renderStatusBar(m *model.Model, width int) string {
	bar := components.NewStatusBar(width).
		WithLeftText(fmt.Sprintf("%d modules", countModules(m))).
		WithRightText(m.Keys.Help.Help().Key + " help  " + m.Keys.Quit.Help().Key + " quit")
	if m.StatusBarMessage != "" {
		bar.WithMessage(m.StatusBarMessage, m.StatusBarMessageType)
	}
	return bar.Render()
}

func countModules(m *model.Model) int {
	if m.Doc == nil {
		return 0
	}
	return len(m.Doc.QueryAll(dashboard.ModuleItemSelector))
}
