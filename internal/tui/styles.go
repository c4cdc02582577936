package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/udyr/foundation/udyr/diag"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Transcript styles
	PromptStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	TreeStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	DiagnosticLocationStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(colorError)

	// Status styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Input style
	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)
)

// Helper functions
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

func RenderError(err string) string {
	return ErrorMessageStyle.Render("error: " + err)
}

func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}

// RenderDiagnostic renders one diagnostic with the location dimmed and the
// message highlighted. Without colour support the text equals d.String().
func RenderDiagnostic(d diag.Diagnostic) string {
	text := d.String()
	head, msg, found := strings.Cut(text, ": ")
	if !found {
		return ErrorMessageStyle.Render(text)
	}
	return DiagnosticLocationStyle.Render(head+":") + " " + ErrorMessageStyle.Render(msg)
}

// RenderDiagnostics renders a list, one diagnostic per line
func RenderDiagnostics(list diag.List) string {
	lines := make([]string, len(list))
	for i, d := range list {
		lines[i] = RenderDiagnostic(d)
	}
	return strings.Join(lines, "\n")
}
