package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Conversation commands go to the assistant.
	commands := []string{
		"  to=... subject=... content=...   Draft an email",
		"  draft an email to ... about ...  Draft from free text",
		"  summarize my inbox               Rank and summarize mail",
		"  show                             Show the current draft",
		"  edit <instruction>               Revise the draft",
		"  rewrite <instruction>            Rewrite from scratch",
		"  manual                           Edit in your editor",
		"  send / CONFIRM SEND / CANCEL     Send or keep the draft",
		"  help                             Full command list",
	}

	commandsBox := styleBox.
		Width(72).
		Render(strings.Join(commands, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, commandsBox))
	b.WriteString("\n\n")

	// Keyboard shortcuts
	shortcuts := []string{
		"  /help, /h        Show this help",
		"  /settings, /s    Open settings",
		"  /clear           Clear the screen",
		"  /quit, /q        Quit quill",
		"  PgUp/PgDn        Scroll the conversation",
		"  Esc              Go back / Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.
		Width(72).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
