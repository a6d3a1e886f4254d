package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"applierctl/internal/tui/design"
	"applierctl/internal/tui/utils"
)

// MessageType selects the colour of a status bar message.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// StatusBar represents the bottom status bar
type StatusBar struct {
	Width       int
	Message     string
	MessageType MessageType
	LeftText    string
	RightText   string
}

// NewStatusBar creates a new status bar
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{Width: width}
}

// WithMessage sets a status message, which replaces the left and right text.
func (s *StatusBar) WithMessage(message string, msgType MessageType) *StatusBar {
	s.Message = message
	s.MessageType = msgType
	return s
}

// WithLeftText sets the left side text
func (s *StatusBar) WithLeftText(text string) *StatusBar {
	s.LeftText = text
	return s
}

// WithRightText sets the right side text
func (s *StatusBar) WithRightText(text string) *StatusBar {
	s.RightText = text
	return s
}

// Render returns the styled status bar
func (s *StatusBar) Render() string {
	style := s.getStyle()
	inner := s.Width - style.GetHorizontalPadding()

	var content string
	switch {
	case s.Message != "":
		content = utils.TruncateString(s.Message, inner)
	case s.LeftText != "" && s.RightText != "":
		gap := inner - lipgloss.Width(s.LeftText) - lipgloss.Width(s.RightText)
		if gap > 0 {
			content = s.LeftText + strings.Repeat(" ", gap) + s.RightText
		} else {
			content = utils.TruncateString(s.LeftText, inner)
		}
	case s.LeftText != "":
		content = utils.TruncateString(s.LeftText, inner)
	default:
		content = utils.TruncateString(s.RightText, inner)
	}

	return style.
		Width(s.Width).
		MaxWidth(s.Width).
		Render(content)
}

func (s *StatusBar) getStyle() lipgloss.Style {
	if s.Message == "" {
		return design.StatusBarStyle
	}
	switch s.MessageType {
	case StatusBarSuccess:
		return design.StatusBarSuccessStyle
	case StatusBarError:
		return design.StatusBarErrorStyle
	case StatusBarWarning:
		return design.StatusBarWarningStyle
	default:
		return design.StatusBarInfoStyle
	}
}
