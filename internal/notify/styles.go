package notify

import "github.com/charmbracelet/lipgloss"

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	TitleStyle   = lipgloss.NewStyle().Bold(true)
)

// OK renders a success line.
func OK(msg string) string {
	return SuccessStyle.Render("✔ " + msg)
}

// Fail renders an error line.
func Fail(msg string) string {
	return ErrorStyle.Render("✖ " + msg)
}

// Pending renders an in-progress line.
func Pending(msg string) string {
	return PendingStyle.Render("… " + msg)
}
