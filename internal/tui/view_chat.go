package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 3 // Title + model + blank line
	footerHeight = 5 // Input box + status bar
)

func (a *App) boxWidth() int {
	return max(20, min(90, a.width-4))
}

// resize fits the viewport between header and footer.
func (a *App) resize() {
	a.state.viewport.Width = a.boxWidth()
	a.state.viewport.Height = max(5, a.height-headerHeight-footerHeight)
	a.state.input.Width = a.boxWidth() - 4
	a.refresh()
}

// refresh re-renders the history into the viewport and follows the bottom.
func (a *App) refresh() {
	if len(a.state.history) == 0 {
		a.state.viewport.SetContent(a.renderWelcome())
		return
	}

	width := a.boxWidth()
	var blocks []string
	for _, m := range a.state.history {
		blocks = append(blocks, a.renderMessage(m, width))
	}
	a.state.viewport.SetContent(strings.Join(blocks, "\n\n"))
	a.state.viewport.GotoBottom()
}

func (a *App) renderMessage(m message, width int) string {
	switch {
	case m.role == "user":
		lines := strings.Split(wrapText(m.content, width-2), "\n")
		for i, line := range lines {
			prefix := "> "
			if i > 0 {
				prefix = "  "
			}
			lines[i] = styleUser.Render(prefix + line)
		}
		return strings.Join(lines, "\n")
	case m.failed:
		return styleFailed.Render(wrapText(m.content, width-2))
	default:
		return a.markdown(m.content, width)
	}
}

// markdown renders assistant replies with glamour, falling back to wrapped
// plain text.
func (a *App) markdown(content string, width int) string {
	if a.renderer == nil || a.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width-2),
		)
		if err != nil {
			return styleAssistant.Render(wrapText(content, width-2))
		}
		a.renderer, a.rendererWidth = r, width
	}

	out, err := a.renderer.Render(content)
	if err != nil {
		return styleAssistant.Render(wrapText(content, width-2))
	}
	return strings.Trim(out, "\n")
}

func (a *App) renderChat() string {
	// === BUILD HEADER ===
	var header strings.Builder
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("quill")
	header.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	header.WriteString("\n")

	modelLine := styleSubtitle.Render(a.getModelDisplayName())
	header.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, modelLine))
	header.WriteString("\n\n")

	// === BUILD MESSAGES ===
	messages := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.state.viewport.View())

	// === BUILD INPUT/STATUS ===
	var footer strings.Builder

	inputBorder := colorMuted
	if a.status.pending {
		inputBorder = colorWarning
	}
	inputView := a.state.input.View()
	if a.state.busy {
		inputView = styleSubtitle.Render("waiting for the assistant...")
	}
	inputBox := styleBox.
		Width(a.boxWidth()).
		BorderForeground(inputBorder).
		Render(inputView)
	footer.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	footer.WriteString("\n")

	status := styleStatusBar.Render(a.buildStatus())
	footer.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return header.String() + messages + "\n" + footer.String()
}

// buildStatus summarizes the draft and gate state and what is in flight.
func (a *App) buildStatus() string {
	var parts []string

	switch {
	case a.state.connecting:
		parts = append(parts, a.state.spinner.View()+" Connecting...")
	case a.state.busy:
		elapsed := time.Since(a.state.turnStart).Seconds()
		parts = append(parts, fmt.Sprintf("%s Thinking... %.1fs", a.state.spinner.View(), elapsed))
	case a.state.lastTurn > 0:
		parts = append(parts, fmt.Sprintf("%.1fs", a.state.lastTurn.Seconds()))
	}

	st := a.status
	if st.hasDraft {
		label := fmt.Sprintf("draft v%d (%s) to %s", st.version, st.source, truncate(st.to, 30))
		if st.sent {
			label = "sent to " + truncate(st.to, 30)
		}
		parts = append(parts, styleDraft.Render(label))
	}
	if st.pending {
		parts = append(parts, stylePending.Render("CONFIRM SEND / CANCEL"))
	}
	if st.revision {
		parts = append(parts, stylePending.Render("waiting for edit instruction"))
	}

	parts = append(parts, "[PgUp/PgDn] Scroll  /help  [Esc] Quit")
	return strings.Join(parts, "  ")
}

// wrapText wraps text to fit within maxWidth, preserving words and line breaks
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 60
	}

	var result strings.Builder
	for n, para := range strings.Split(text, "\n") {
		if n > 0 {
			result.WriteString("\n")
		}
		lineLen := 0
		for i, word := range strings.Fields(para) {
			w := lipgloss.Width(word)
			if i > 0 {
				if lineLen+1+w > maxWidth {
					result.WriteString("\n")
					lineLen = 0
				} else {
					result.WriteString(" ")
					lineLen++
				}
			}
			result.WriteString(word)
			lineLen += w
		}
	}

	return result.String()
}

// getModelDisplayName returns a friendly model name for display
func (a *App) getModelDisplayName() string {
	if a.state.config == nil {
		return ""
	}
	model := a.state.config.Model
	provider := a.state.config.Provider
	mailbox := a.state.config.Mailbox.Provider

	parts := []string{model}
	if provider != "" && !strings.Contains(strings.ToLower(model), strings.ToLower(provider)) {
		parts = []string{fmt.Sprintf("%s via %s", model, provider)}
	}
	if mailbox != "" {
		parts = append(parts, "mailbox: "+mailbox)
	}
	return strings.Join(parts, "  ·  ")
}
