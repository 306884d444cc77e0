package tui

import "github.com/charmbracelet/lipgloss"

const logo = `
  ██████╗ ██╗   ██╗██╗██╗     ██╗
 ██╔═══██╗██║   ██║██║██║     ██║
 ██║   ██║██║   ██║██║██║     ██║
 ██║▄▄ ██║██║   ██║██║██║     ██║
 ╚██████╔╝╚██████╔╝██║███████╗███████╗
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝
`

// renderWelcome is the empty conversation.
func (a *App) renderWelcome() string {
	logoRendered := styleLogo.Render(logo)

	subtitle := styleSubtitle.Render("Email drafting and questions, from the terminal")

	examples := styleSubtitle.Render("\n" +
		`to=alice@example.com subject="Friday" content="confirm the meeting"` + "\n" +
		"draft an email to bob@example.com about rescheduling\n" +
		"summarize my inbox")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		logoRendered,
		subtitle,
		examples,
	)

	return lipgloss.Place(
		a.state.viewport.Width,
		a.state.viewport.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
