package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styling functions using lipgloss
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	ProcessingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	StepStyle = lipgloss.NewStyle().
			Faint(true).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)

	CursorStyle = lipgloss.NewStyle().
			Reverse(true)
)

// Step renders a "[n/total]" phase marker followed by a message
func Step(n, total int, msg string) string {
	return StepStyle.Render(fmt.Sprintf("[%d/%d]", n, total)) + " " + ProcessingStyle.Render(msg)
}
