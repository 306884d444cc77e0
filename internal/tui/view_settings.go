package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/quill/internal/config"
)

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "provider":
		return a.renderSettingsProvider()
	case "model":
		return a.renderSettingsModel()
	case "apikey":
		return a.renderSettingsAPIKey()
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	cfg := a.state.config.Masked()
	providerName := cfg.Provider
	if provider := config.GetProvider(cfg.Provider); provider != nil {
		providerName = provider.Name
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "Not set"
	}
	editor := "default"
	if len(cfg.Editor.Command) > 0 {
		editor = strings.Join(cfg.Editor.Command, " ")
	}

	configLines := []string{
		fmt.Sprintf("  Provider: %s", providerName),
		fmt.Sprintf("  Model:    %s", cfg.Model),
		fmt.Sprintf("  API Key:  %s", apiKey),
		"",
		fmt.Sprintf("  Mailbox:  %s", cfg.Mailbox.Provider),
		fmt.Sprintf("  Editor:   %s", truncate(editor, 36)),
		fmt.Sprintf("  Drafts:   %s on overwrite", cfg.Session.OverwritePolicy),
	}
	if p := cfg.Path(); p != "" {
		configLines = append(configLines, "", "  "+truncate(p, 44))
	}

	configBox := styleBox.
		Width(50).
		Render(strings.Join(configLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, configBox))
	b.WriteString("\n\n")

	// Actions
	actions := []string{
		"  [p] Change provider",
		"  [m] Change model",
		"  [k] Update API key",
	}
	actionsBox := styleBox.
		Width(50).
		Render(strings.Join(actions, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, actionsBox))
	b.WriteString("\n\n")

	note := styleSubtitle.Render("Saving a change starts a new session.")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, note))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsProvider() string {
	var lines []string
	for i, p := range config.Providers {
		lines = append(lines, a.settingsLine(i, p.Name, p.ID == a.state.config.Provider))
	}
	return a.renderSettingsList("Select Provider", "", lines)
}

func (a *App) renderSettingsModel() string {
	provider := config.GetProvider(a.state.config.Provider)
	if provider == nil {
		return a.renderSettingsList("Select Model", "No provider selected", nil)
	}

	var lines []string
	for i, model := range provider.Models {
		lines = append(lines, a.settingsLine(i, model, model == a.state.config.Model))
	}
	return a.renderSettingsList("Select Model", fmt.Sprintf("Provider: %s", provider.Name), lines)
}

func (a *App) settingsLine(i int, label string, current bool) string {
	cursor := "  "
	if i == a.state.settingsSelected {
		cursor = "> "
	}
	line := cursor + label
	if current {
		line += " (current)"
	}
	if i == a.state.settingsSelected {
		line = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(line)
	}
	return line
}

func (a *App) renderSettingsList(titleText, desc string, lines []string) string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(titleText)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if desc != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(desc)))
		b.WriteString("\n\n")
	}

	if len(lines) > 0 {
		listBox := styleBox.
			Width(50).
			Render(strings.Join(lines, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsAPIKey() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Update API Key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render("Enter your new API key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	inputBox := styleBox.
		Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.settingsMode {
	case "":
		switch msg.String() {
		case "p":
			a.state.settingsMode = "provider"
			a.state.settingsSelected = 0
			for i, p := range config.Providers {
				if p.ID == a.state.config.Provider {
					a.state.settingsSelected = i
				}
			}
		case "m":
			a.state.settingsMode = "model"
			a.state.settingsSelected = 0
		case "k":
			a.state.settingsMode = "apikey"
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Focus()
			return textinput.Blink
		}

	case "provider":
		return a.moveOrSelect(msg, len(config.Providers), func(i int) tea.Cmd {
			p := config.Providers[i]
			changed := p.ID != a.state.config.Provider
			a.state.config.Provider = p.ID
			a.state.config.Model = p.DefaultModel
			if changed {
				a.state.config.APIKey = ""
			}
			if p.NeedsAPIKey && a.state.config.APIKey == "" {
				a.state.settingsMode = "apikey"
				a.state.apiKeyInput.Focus()
				return textinput.Blink
			}
			return a.saveSettings()
		})

	case "model":
		provider := config.GetProvider(a.state.config.Provider)
		if provider == nil {
			return nil
		}
		return a.moveOrSelect(msg, len(provider.Models), func(i int) tea.Cmd {
			a.state.config.Model = provider.Models[i]
			return a.saveSettings()
		})

	case "apikey":
		if key.Matches(msg, keys.Enter) {
			a.state.config.APIKey = strings.TrimSpace(a.state.apiKeyInput.Value())
			a.state.apiKeyInput.Reset()
			return a.saveSettings()
		}
	}
	return nil
}

func (a *App) moveOrSelect(msg tea.KeyMsg, n int, selectFn func(int) tea.Cmd) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		if a.state.settingsSelected > 0 {
			a.state.settingsSelected--
		}
	case key.Matches(msg, keys.Down):
		if a.state.settingsSelected < n-1 {
			a.state.settingsSelected++
		}
	case key.Matches(msg, keys.Enter):
		if n > 0 {
			return selectFn(a.state.settingsSelected)
		}
	}
	return nil
}

func (a *App) saveSettings() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return settingsSavedMsg{}
	}
}
