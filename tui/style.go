package tui

import "github.com/charmbracelet/lipgloss"

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePlayer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	styleWall = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePortal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	styleNPC = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))

	styleCompany = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleGround = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	styleBattleFrame = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("99")).
				Padding(0, 2)

	styleEnemyName = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	styleQuizPrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleLogLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)
