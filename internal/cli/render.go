package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/mhr-assist/internal/model"
)

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5"))
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#374151"))
	chipStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#D1D5DB"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
)

func renderMessage(m model.Message) string {
	label := assistantLabel.Render("Heidi Assist")
	if m.Role == model.RoleUser {
		label = userLabel.Render("You")
	}
	return label + "  " + hintStyle.Render(m.Timestamp.Local().Format("15:04")) + "\n" + m.Content
}

func renderChips(tags []string) string {
	if len(tags) == 0 {
		return hintStyle.Render("No keywords yet.")
	}
	chips := make([]string, len(tags))
	for i, t := range tags {
		chips[i] = chipStyle.Render(t)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func renderHint(lines ...string) string {
	return hintStyle.Render(strings.Join(lines, "\n"))
}

func renderError(msg string) string {
	return errorStyle.Render(msg)
}
