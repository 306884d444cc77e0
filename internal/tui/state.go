package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sant0-9/quill/internal/config"
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model

	// Settings state
	settingsMode     string
	settingsSelected int

	// Conversation
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []message

	// Turn in flight
	busy      bool
	turnStart time.Time
	lastTurn  time.Duration

	// Backend
	backend       Backend
	connecting    bool
	providerReady bool
	providerError error
}

type message struct {
	role    string
	content string
	failed  bool
}

func newState() *state {
	input := textinput.New()
	input.Placeholder = "Ask something, or draft an email..."
	input.CharLimit = 2000
	input.Width = 60

	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	return &state{
		input:       input,
		apiKeyInput: apiKey,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
	}
}
