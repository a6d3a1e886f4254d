package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"applierctl/internal/api"
	"applierctl/internal/dashboard"
	"applierctl/internal/tui/components"
	"applierctl/internal/tui/design"
	"applierctl/internal/tui/model"
	"applierctl/internal/tui/utils"
)

func renderDashboard(m *model.Model, width, height int) string {
	navWidth := min(max(width/3, minNavigatorWidth), maxNavigatorWidth)
	detailWidth := max(width-navWidth, design.MinPanelWidth)

	nav := components.NewPanel("Modules").WithDimensions(navWidth, height)
	nav.SetFocused(true)
	navInnerWidth, navInnerHeight := nav.InnerSize()
	nav.WithContent(renderNavigator(m, navInnerWidth, navInnerHeight-1))

	detail := components.NewPanel(detailTitle(m)).WithDimensions(detailWidth, height)
	detail.WithType(detailType(m))
	innerWidth, innerHeight := detail.InnerSize()
	detail.WithContent(renderDetail(m, innerWidth, innerHeight-1))

	return lipgloss.JoinHorizontal(lipgloss.Top, nav.Render(), detail.Render())
}

// renderNavigator lists namespaces and their visible modules, scrolled so the
// cursor stays on screen.
func renderNavigator(m *model.Model, width, height int) string {
	if !m.PageReady {
		return design.DimStyle.Render("waiting for status page")
	}

	entries := m.Entries()
	if len(entries) == 0 {
		return design.DimStyle.Render("no modules")
	}

	cursor := min(m.Cursor, len(entries)-1)
	start := 0
	if height > 0 && cursor >= height {
		start = cursor - height + 1
	}
	end := len(entries)
	if height > 0 {
		end = min(start+height, len(entries))
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, renderEntry(entries[i], i == cursor, width))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(e model.Entry, selected bool, width int) string {
	marker := " "
	if selected {
		marker = "›"
	}

	var line string
	if e.Namespace {
		line = marker + " " + utils.TruncateString(e.Label, width-2)
		if e.Active {
			return design.TitleStyle.Foreground(design.ColorPrimary).Render(line)
		}
		return design.TitleStyle.Render(line)
	}

	icon := design.GetStateStyle(e.State).Render(design.GetStateIcon(e.State))
	state := e.State
	nameWidth := width - 5 - lipgloss.Width(state) - 1
	name := utils.PadRight(e.Label, max(nameWidth, 1))
	line = marker + "  " + icon + " " + name + " " + design.GetStateStyle(e.State).Render(state)

	switch {
	case selected:
		return design.ListItemSelectedStyle.UnsetPaddingLeft().Render(line)
	case e.Active:
		return lipgloss.NewStyle().Bold(true).Render(line)
	default:
		return line
	}
}

func detailTitle(m *model.Model) string {
	if m.Dashboard == nil {
		return "Detail"
	}
	if sel := m.Dashboard.Selector(); sel.HasModule() {
		return sel.String()
	}
	return "Detail"
}

func detailType(m *model.Model) components.PanelType {
	if m.Doc == nil {
		return components.PanelTypeDefault
	}
	el := m.Doc.Query(dashboard.DetailPaneSelector + " " + dashboard.ModuleStateSelector)
	if el == nil {
		return components.PanelTypeDefault
	}
	state, _ := el.Attr(dashboard.AttrState)
	switch state {
	case api.StateErrored:
		return components.PanelTypeError
	case api.StateRunning:
		return components.PanelTypeWarning
	case api.StateReady:
		return components.PanelTypeSuccess
	}
	return components.PanelTypeDefault
}

func renderDetail(m *model.Model, width, height int) string {
	switch {
	case m.PageErr != nil && !m.PageReady:
		return design.TextErrorStyle.Render("Failed to load status page: "+api.ErrorDetail(m.PageErr)) +
			"\n" + design.DimStyle.Render("press ctrl+r to retry")
	case !m.PageReady:
		return m.Spinner.View() + " Loading status page..."
	case m.Dashboard.Loader().Loading():
		return m.Spinner.View() + " Loading..."
	case m.DetailContent == "":
		return design.DimStyle.Render("Select a module to see its runs")
	}

	m.DetailViewport.Width = max(width, 1)
	m.DetailViewport.Height = max(height, 1)
	return m.DetailViewport.View()
}
