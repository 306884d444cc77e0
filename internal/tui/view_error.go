package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderError() string {
	var b strings.Builder

	// Error icon and title
	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Error message
	errMsg := "Unknown error"
	if a.state.providerError != nil {
		errMsg = a.state.providerError.Error()
	}

	errBox := styleBox.
		Width(min(70, a.width-4)).
		BorderForeground(colorError).
		Render(errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if suggestions := suggest(errMsg); len(suggestions) > 0 {
		suggBox := styleBox.
			Width(min(70, a.width-4)).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	// Actions
	status := styleStatusBar.Render("[r] Retry  [s] Settings  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// suggest maps an error to next steps for the user.
func suggest(msg string) []string {
	errLower := strings.ToLower(msg)
	switch {
	case strings.Contains(errLower, "api key") || strings.Contains(errLower, "401") || strings.Contains(errLower, "unauthorized"):
		return []string{
			"Check your API key in ~/.config/quill/config.yaml",
			"Or press [s] to open settings",
		}
	case strings.Contains(errLower, "gmail") || strings.Contains(errLower, "authorization code"):
		return []string{
			"Run `quill auth` once to authorize Gmail access",
			"Or set mailbox.provider to stdout to try quill without a mailbox",
		}
	case strings.Contains(errLower, "ollama") || strings.Contains(errLower, "11434"):
		return []string{
			"Make sure Ollama is running: ollama serve",
			"Or switch to a cloud provider in settings",
		}
	case strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect") || strings.Contains(errLower, "timeout"):
		return []string{
			"Check your internet connection",
			"Or try using Ollama for offline mode",
		}
	case strings.Contains(errLower, "rate limit") || strings.Contains(errLower, "429"):
		return []string{
			"You've hit the API rate limit",
			"Wait a moment and try again",
		}
	}
	return nil
}
