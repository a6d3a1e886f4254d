package design

import (
	"github.com/charmbracelet/lipgloss"
)

// Spacing units, in terminal cells
const (
	SpaceNone = 0
	SpaceXS   = 1
	SpaceSM   = 2
	SpaceMD   = 3
	SpaceLG   = 4

	// Component dimensions
	MinPanelHeight = 3
	MinPanelWidth  = 20
)

// Color Palette - Semantic colors with consistent light/dark mode support
var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}

	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#D97706",
		Dark:  "#F59E0B",
	}
	ColorInfo = lipgloss.AdaptiveColor{
		Light: "#2563EB",
		Dark:  "#3B82F6",
	}

	ColorBackground = lipgloss.AdaptiveColor{
		Light: "#FFFFFF",
		Dark:  "#0F0F0F",
	}
	ColorSurface = lipgloss.AdaptiveColor{
		Light: "#F9FAFB",
		Dark:  "#1A1A1A",
	}
	ColorSurfaceAlt = lipgloss.AdaptiveColor{
		Light: "#F3F4F6",
		Dark:  "#262626",
	}
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#E5E7EB",
		Dark:  "#404040",
	}
	ColorBorderFocus = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}

	ColorText = lipgloss.AdaptiveColor{
		Light: "#111827",
		Dark:  "#F9FAFB",
	}
	ColorTextSecondary = lipgloss.AdaptiveColor{
		Light: "#6B7280",
		Dark:  "#9CA3AF",
	}
	ColorTextMuted = lipgloss.AdaptiveColor{
		Light: "#9CA3AF",
		Dark:  "#6B7280",
	}
	ColorBackgroundOverlay = lipgloss.AdaptiveColor{
		Light: "#FFFFFF",
		Dark:  "#1E1E1E",
	}
)

// Base Styles
var (
	TextStyle          = lipgloss.NewStyle().Foreground(ColorText)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	TextSuccessStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextErrorStyle     = lipgloss.NewStyle().Foreground(ColorError)
	TextWarningStyle   = lipgloss.NewStyle().Foreground(ColorWarning)
	DimStyle           = lipgloss.NewStyle().Foreground(ColorTextMuted)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)

// Component Styles
var (
	PanelStyle = BorderStyle.
			Padding(0, SpaceXS).
			Margin(0)

	PanelFocusedStyle = PanelStyle.
				BorderForeground(ColorBorderFocus)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Background(ColorSurface).
			Foreground(ColorText).
			Padding(0, SpaceSM)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurfaceAlt).
			Foreground(ColorText).
			Padding(0, SpaceSM).
			Height(1)

	StatusBarSuccessStyle = StatusBarStyle.
				Background(ColorSuccess).
				Foreground(ColorBackground)

	StatusBarErrorStyle = StatusBarStyle.
				Background(ColorError).
				Foreground(ColorBackground)

	StatusBarWarningStyle = StatusBarStyle.
				Background(ColorWarning).
				Foreground(ColorBackground)

	StatusBarInfoStyle = StatusBarStyle.
				Background(ColorInfo).
				Foreground(ColorBackground)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(SpaceXS)

	ListItemSelectedStyle = ListItemStyle.
				Foreground(ColorPrimary).
				Bold(true)

	ListItemHiddenStyle = ListItemStyle.
				Foreground(ColorTextMuted)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, SpaceXS).
			Background(ColorPrimary).
			Foreground(ColorBackground).
			Bold(true)

	ButtonDisabledStyle = ButtonStyle.
				Background(ColorTextMuted).
				Foreground(ColorSurfaceAlt)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, SpaceXS)

	InputFocusedStyle = InputStyle.
				BorderForeground(ColorBorderFocus)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	AlertSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorSuccess).
				Foreground(ColorSuccess).
				PaddingLeft(SpaceXS)

	AlertWarningStyle = AlertSuccessStyle.
				BorderForeground(ColorWarning).
				Foreground(ColorWarning)
)

// Overlay styles
var (
	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1).
			Align(lipgloss.Center).
			Foreground(ColorText)

	CenteredOverlayContainerStyle = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(ColorBorder).
					Background(ColorBackgroundOverlay).
					Foreground(ColorText).
					Padding(1, 2)

	LogOverlayStyle = CenteredOverlayContainerStyle
)

// Log level styles
var (
	LogInfoStyle  = lipgloss.NewStyle().Foreground(ColorText)
	LogWarnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	LogErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	LogDebugStyle = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
)

// Module state values as shown by the applier.
const (
	stateRunning = "Running"
	stateReady   = "Ready"
	stateErrored = "Errored"
)

// GetStateStyle returns the style a module state is rendered with.
func GetStateStyle(state string) lipgloss.Style {
	switch state {
	case stateReady:
		return TextSuccessStyle
	case stateErrored:
		return TextErrorStyle
	case stateRunning:
		return TextWarningStyle
	default:
		return TextSecondaryStyle
	}
}

// GetStateIcon returns the glyph shown next to a module in the navigator.
func GetStateIcon(state string) string {
	switch state {
	case stateReady:
		return "●"
	case stateErrored:
		return "✗"
	case stateRunning:
		return "◐"
	default:
		return "○"
	}
}

// Initialize sets up the design system
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
