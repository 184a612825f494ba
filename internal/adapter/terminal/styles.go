package terminal

import "github.com/charmbracelet/lipgloss"

var (
	white  = lipgloss.Color("#E2E2E2")
	gray   = lipgloss.Color("#888888")
	muted  = lipgloss.Color("#555555")
	blue   = lipgloss.Color("#5FAFFF")
	green  = lipgloss.Color("#5FD787")
	yellow = lipgloss.Color("#FFD787")
	red    = lipgloss.Color("#FF8787")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(white)

	captionStyle = lipgloss.NewStyle().
			Foreground(gray)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(blue).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(gray).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(white)

	warningStyle = lipgloss.NewStyle().
			Foreground(yellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(blue).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	metricStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green)
)
