package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"applierctl/internal/tui/design"
	"applierctl/internal/tui/model"
)

func renderHelpOverlay(m *model.Model, width, height int) string {
	m.Help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		design.HelpTitleStyle.Render("Keyboard shortcuts"),
		m.Help.View(m.Keys),
	)
	box := design.CenteredOverlayContainerStyle.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func renderLogOverlay(m *model.Model, width, height int) string {
	style := design.LogOverlayStyle
	m.LogViewport.Width = max(width-style.GetHorizontalFrameSize(), 1)
	m.LogViewport.Height = max(height-style.GetVerticalFrameSize()-1, 1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		design.TitleStyle.Render("Activity log"),
		m.LogViewport.View(),
	)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(content)
}

// LogContent colours activity log lines by their level tag.
func LogContent(lines []string) string {
	styled := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.Contains(line, "[ERROR]"):
			styled[i] = design.LogErrorStyle.Render(line)
		case strings.Contains(line, "[WARN]"):
			styled[i] = design.LogWarnStyle.Render(line)
		case strings.Contains(line, "[DEBUG]"):
			styled[i] = design.LogDebugStyle.Render(line)
		default:
			styled[i] = design.LogInfoStyle.Render(line)
		}
	}
	return strings.Join(styled, "\n")
}
