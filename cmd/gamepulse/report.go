package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gamepulse/gamepulse/pkg/models"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	metaLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45B7D1")).
			Bold(true)

	subheadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96E6A1")).
			Bold(true)
)

// renderReport styles the synthesized markdown report for terminal output.
func renderReport(result *models.SessionResult) string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render("GamePulse Analytics"))
	b.WriteString("\n\n")
	b.WriteString(metaLabelStyle.Render("Complexity: "))
	b.WriteString(string(result.Complexity))
	b.WriteString(metaLabelStyle.Render("   Strategy: "))
	b.WriteString(string(result.Strategy))
	b.WriteString(metaLabelStyle.Render("   Success rate: "))
	fmt.Fprintf(&b, "%.1f%%\n\n", result.Summary.SuccessRate)

	for _, line := range strings.Split(result.Report, "\n") {
		switch {
		case strings.HasPrefix(line, "### "):
			b.WriteString(subheadingStyle.Render(strings.TrimPrefix(line, "### ")))
		case strings.HasPrefix(line, "## "):
			b.WriteString(headingStyle.Render(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			b.WriteString(headingStyle.Render(strings.TrimPrefix(line, "# ")))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
