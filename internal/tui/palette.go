package tui

import "github.com/charmbracelet/lipgloss"

// Shared color palette for the progress display and the summary block.
var (
	ColorInk     = lipgloss.Color("#E5E9F0")
	ColorDim     = lipgloss.Color("#7A8291")
	ColorAccent  = lipgloss.Color("#88C0D0")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
	ColorError   = lipgloss.Color("#BF616A")
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle      = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle        = lipgloss.NewStyle().Foreground(ColorDim)
	screenshotStyle = lipgloss.NewStyle().Foreground(ColorWarn)
	regularStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle      = lipgloss.NewStyle().Foreground(ColorError)
	barStyle        = lipgloss.NewStyle().Foreground(ColorAccent)
)
