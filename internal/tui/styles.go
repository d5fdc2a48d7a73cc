package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorGreen  = lipgloss.Color("#04B575")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorGold   = lipgloss.Color("#FFD700")
	colorMuted  = lipgloss.Color("#626262")
	colorText   = lipgloss.Color("#FAFAFA")
)

// Styles for table content
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(colorText).
			Background(colorAccent)

	HandInfoStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#96CEB4"))
	ActionsStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGold)
	ActiveSeatStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	FoldedSeatStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)

	RedCardStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	BlackCardStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DDDDDD"))

	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEAA7"))
	InfoStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

// Pane borders; the focused pane is highlighted
var (
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
	focusedPaneStyle = paneStyle.BorderForeground(colorGreen)
)
