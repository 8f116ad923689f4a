package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#22d3ee")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	failure = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	successStyle = lipgloss.NewStyle().
			Foreground(success).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warning)

	errorStyle = lipgloss.NewStyle().
			Foreground(failure).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(14)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)
)

// field is one label/value line of a box.
type field struct {
	label string
	value string
}

// renderBox draws a titled box of label/value lines.
func renderBox(title string, fields ...field) string {
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.label)+f.value)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func printError(msg string) {
	fmt.Println(errorStyle.Render("✗ " + msg))
}

func printSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

// checkStatus colors a health check result.
func checkStatus(status string) string {
	switch status {
	case "pass", "ok":
		return successStyle.Render(status)
	case "skip":
		return warningStyle.Render(status)
	default:
		return errorStyle.Render(status)
	}
}
