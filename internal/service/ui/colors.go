package ui

import "github.com/charmbracelet/lipgloss"

// Plain ANSI colors so the palette follows the user's terminal theme.
var (
	// TitleStyle section headers
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle dimmed descriptions
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Chat speaker styles.
var (
	UserStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	BotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
