// Package common provides the shared ambient layer of hostkit: config
// loading, logging setup, terminal display helpers and small host
// utilities used by every component.
package common

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // purple
	SecondaryColor = lipgloss.Color("#6B97F7") // light blue
	SuccessColor   = lipgloss.Color("#2ECC71") // green
	WarningColor   = lipgloss.Color("#F5B041") // amber
	ErrorColor     = lipgloss.Color("#E74C3C") // red
)

var (
	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Width(80)

	titleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(8)

	menuNumberStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	successStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	warningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
)

// RemoveColors forces plain ASCII rendering for every lipgloss style.
func RemoveColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// DisplayBox wraps a titled block of content in a rounded border box.
func DisplayBox(title string, content string) string {
	return boxStyle.Render(titleStyle.Render(title) + "\n\n" + content)
}

// SectionTitle formats a section heading inside a report or menu.
func SectionTitle(title string) string {
	return titleStyle.Render(title)
}

// StatusListItem renders one measured value against its limit, colored
// by whether the value stayed inside the limit:
//
//	•  RAM Usage     less than 80% (43%)
func StatusListItem(label string, limit string, current string, ok bool) string {
	statusText := "less than"
	statusStyle := successStyle
	if !ok {
		statusText = "more than"
		statusStyle = errorStyle
	}

	line := fmt.Sprintf("•  %-14s %s %s (%s)",
		label,
		statusStyle.Render(statusText),
		limit,
		current)

	return itemStyle.Render(line)
}

// SimpleStatusListItem renders a plain "label is state" line, colored
// by success:
//
//	•  /data           is 92% used
func SimpleStatusListItem(label string, state string, ok bool) string {
	statusStyle := successStyle
	if !ok {
		statusStyle = errorStyle
	}

	line := fmt.Sprintf("•  %-16s is %s", label, statusStyle.Render(state))

	return itemStyle.Render(line)
}

// MenuItem renders one numbered menu entry.
func MenuItem(number string, label string) string {
	return fmt.Sprintf("  %s) %s", menuNumberStyle.Render(number), label)
}

// Prompt renders the text shown before reading operator input.
func Prompt(text string) string {
	return promptStyle.Render(text)
}

// SuccessLine, WarnLine and FailLine render one-line action outcomes
// for the interactive session.
func SuccessLine(text string) string {
	return successStyle.Render("✓ " + text)
}

func WarnLine(text string) string {
	return warningStyle.Render("! " + text)
}

func FailLine(text string) string {
	return errorStyle.Render("✗ " + text)
}
