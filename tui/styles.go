package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#B5523B")
	colorGreen  = lipgloss.Color("#3D6B3D")
	colorYellow = lipgloss.Color("#E0C060")
	colorGray   = lipgloss.Color("#666666")
	colorDim    = lipgloss.Color("#444444")
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorCyan   = lipgloss.Color("#00FFFF")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(cellWidth).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center)

	openCellStyle = cellStyle.
			Foreground(colorGray)

	scaleCellStyle = cellStyle.
			Background(colorGreen).
			Foreground(colorWhite)

	rootCellStyle = cellStyle.
			Background(colorRed).
			Foreground(colorWhite).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	ledOffStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	ledOnStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	ledAccentStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

const cellWidth = 4
