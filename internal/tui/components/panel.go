package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"applierctl/internal/tui/design"
	"applierctl/internal/tui/utils"
)

// PanelType defines the visual style of a panel
type PanelType int

const (
	PanelTypeDefault PanelType = iota
	PanelTypeSuccess
	PanelTypeError
	PanelTypeWarning
)

// Panel is a bordered box with a title line.
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Type    PanelType
}

// NewPanel creates a new panel with default settings
func NewPanel(title string) *Panel {
	return &Panel{
		Title:  title,
		Width:  design.MinPanelWidth,
		Height: design.MinPanelHeight,
	}
}

// WithContent sets the panel content
func (p *Panel) WithContent(content string) *Panel {
	p.Content = content
	return p
}

// WithDimensions sets the outer panel dimensions
func (p *Panel) WithDimensions(width, height int) *Panel {
	p.Width = width
	p.Height = height
	return p
}

// WithType sets the panel type for styling
func (p *Panel) WithType(panelType PanelType) *Panel {
	p.Type = panelType
	return p
}

// SetFocused updates the focus state
func (p *Panel) SetFocused(focused bool) *Panel {
	p.Focused = focused
	return p
}

// InnerSize returns the content area left once border and padding are
// subtracted from the outer size.
func (p *Panel) InnerSize() (int, int) {
	style := p.getStyle()
	w := max(p.Width, design.MinPanelWidth) - style.GetHorizontalFrameSize()
	h := max(p.Height, design.MinPanelHeight) - style.GetVerticalFrameSize()
	return max(w, 1), max(h, 1)
}

// Render returns the styled panel. Content that does not fit is cut, with an
// ellipsis on the last visible line.
func (p *Panel) Render() string {
	style := p.getStyle()
	innerWidth, innerHeight := p.InnerSize()

	var lines []string
	if p.Title != "" {
		lines = append(lines, p.renderTitle(innerWidth))
	}

	if p.Content != "" {
		contentLines := strings.Split(p.Content, "\n")
		available := innerHeight - len(lines)
		if available > 0 {
			if len(contentLines) > available {
				contentLines = append(contentLines[:available-1], "…")
			}
			for _, line := range contentLines {
				if lipgloss.Width(line) > innerWidth {
					line = utils.TruncateString(line, innerWidth)
				}
				lines = append(lines, line)
			}
		}
	}

	for len(lines) < innerHeight {
		lines = append(lines, "")
	}
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}

	return style.
		Width(innerWidth + style.GetHorizontalPadding()).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

func (p *Panel) getStyle() lipgloss.Style {
	base := design.PanelStyle
	if p.Focused {
		base = design.PanelFocusedStyle
	}

	switch p.Type {
	case PanelTypeSuccess:
		return base.BorderForeground(design.ColorSuccess)
	case PanelTypeError:
		return base.BorderForeground(design.ColorError)
	case PanelTypeWarning:
		return base.BorderForeground(design.ColorWarning)
	default:
		return base
	}
}

func (p *Panel) renderTitle(width int) string {
	titleStyle := design.TitleStyle
	if p.Focused {
		titleStyle = titleStyle.Foreground(design.ColorPrimary)
	}
	return titleStyle.Render(utils.TruncateString(p.Title, width))
}
