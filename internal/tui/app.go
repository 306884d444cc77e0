// Package tui is the full-screen front end. It owns no dialogue state: every
// line the user submits is handed to the backend as one turn.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/config"
	"github.com/sant0-9/quill/internal/session"
)

// Backend runs turns. The assistant satisfies it.
type Backend interface {
	Handle(ctx context.Context, text string) (*agent.Result, error)
	Session() *session.Session
	Ping(ctx context.Context) error
	Close() error
}

// BuildFunc assembles a backend from config. suspend must wrap anything
// that takes over the terminal, such as the external editor.
type BuildFunc func(ctx context.Context, cfg *config.Config, suspend func(func() error) error) (Backend, error)

type view int

const (
	viewChat view = iota
	viewSetup
	viewSettings
	viewHelp
	viewError
)

const pingTimeout = 5 * time.Second

type App struct {
	width    int
	height   int
	view     view
	state    *state
	build    BuildFunc
	program  *tea.Program
	quitting bool

	status sessionStatus

	renderer      *glamour.TermRenderer
	rendererWidth int
}

// NewApp starts in setup when cfg is nil.
func NewApp(cfg *config.Config, build BuildFunc) *App {
	s := newState()

	if cfg == nil {
		s.needsSetup = true
		s.config = config.DefaultConfig()
	} else {
		s.config = cfg
	}

	return &App{
		view:  viewChat,
		state: s,
		build: build,
	}
}

// SetProgram gives the app the running program so the terminal can be
// handed to an external editor.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

// Suspend releases the terminal while run executes.
func (a *App) Suspend(run func() error) error {
	if a.program == nil {
		return run()
	}
	if err := a.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer a.program.RestoreTerminal()
	return run()
}

// Close releases the backend.
func (a *App) Close() error {
	if a.state.backend == nil {
		return nil
	}
	return a.state.backend.Close()
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	return tea.Batch(
		tea.WindowSize(),
		textinput.Blink,
		a.connect(),
	)
}

// connect builds the backend and checks the model is reachable.
func (a *App) connect() tea.Cmd {
	a.state.connecting = true
	cfg := a.state.config
	return func() tea.Msg {
		b, err := a.build(context.Background(), cfg, a.Suspend)
		if err != nil {
			return providerErrorMsg{err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err := b.Ping(ctx); err != nil {
			b.Close()
			return providerErrorMsg{err}
		}

		return backendReadyMsg{backend: b, status: snapshot(b.Session())}
	}
}

// runTurn hands text to the backend. Only one turn runs at a time.
func (a *App) runTurn(text string) tea.Cmd {
	b := a.state.backend
	start := a.state.turnStart
	return func() tea.Msg {
		res, err := b.Handle(context.Background(), text)
		return turnDoneMsg{
			result:  res,
			err:     err,
			elapsed: time.Since(start),
			status:  snapshot(b.Session()),
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		prev := a.view
		if cmd := a.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// A key that quit or switched views is not also typed.
		if a.quitting || a.view != prev {
			return a, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewChat
		return a, a.connect()

	case settingsSavedMsg:
		if a.state.backend != nil {
			a.state.backend.Close()
			a.state.backend = nil
		}
		a.state.providerReady = false
		a.state.settingsMode = ""
		a.view = viewChat
		a.appendMessage(message{role: "assistant", content: "Settings saved. Reconnecting with a new session."})
		return a, a.connect()

	case setupErrorMsg:
		a.state.providerError = msg.error
		a.view = viewError
		return a, nil

	case backendReadyMsg:
		a.state.connecting = false
		a.state.backend = msg.backend
		a.state.providerReady = true
		a.state.providerError = nil
		a.status = msg.status
		a.state.input.Focus()
		return a, textinput.Blink

	case providerErrorMsg:
		a.state.connecting = false
		a.state.providerError = msg.error
		a.view = viewError
		return a, nil

	case turnDoneMsg:
		a.state.busy = false
		a.state.lastTurn = msg.elapsed
		a.status = msg.status
		if msg.err != nil {
			a.appendMessage(message{role: "assistant", content: "Error: " + msg.err.Error(), failed: true})
		} else if msg.result != nil {
			a.appendMessage(message{role: "assistant", content: msg.result.Content})
		}
		a.state.input.Focus()
		return a, textinput.Blink

	case spinner.TickMsg:
		if !a.state.busy && !a.state.connecting {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd
	}

	// Update text inputs based on view
	switch {
	case a.view == viewSetup && a.state.setupStep == 1,
		a.view == viewSettings && a.state.settingsMode == "apikey":
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	case a.view == viewChat && !a.state.busy:
		var cmd tea.Cmd
		a.state.input, cmd = a.state.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, ok := msg.(tea.MouseMsg); ok && a.view == viewChat {
		var cmd tea.Cmd
		a.state.viewport, cmd = a.state.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Quit):
		switch {
		case a.view == viewSettings && a.state.settingsMode != "":
			a.state.settingsMode = ""
			a.state.apiKeyInput.Reset()
			return nil
		case a.view == viewSettings || a.view == viewHelp:
			a.view = viewChat
			return nil
		case a.view == viewError && a.state.providerReady:
			a.view = viewChat
			return nil
		case a.view == viewSetup && a.state.setupStep == 1:
			// Go back to provider selection
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			return nil
		}
		a.quitting = true
		return tea.Quit
	}

	// View-specific handling
	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewError:
		return a.handleErrorKey(msg)
	case viewChat:
		return a.handleChatKey(msg)
	}

	return nil
}

func (a *App) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Enter):
		return a.handleInput()
	case key.Matches(msg, keys.PageUp):
		a.state.viewport.HalfViewUp()
	case key.Matches(msg, keys.PageDown):
		a.state.viewport.HalfViewDown()
	}
	return nil
}

func (a *App) handleErrorKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		a.state.providerError = nil
		a.view = viewChat
		return tea.Batch(a.connect(), a.state.spinner.Tick)
	case "s":
		a.openSettings()
	}
	return nil
}

func (a *App) handleInput() tea.Cmd {
	input := strings.TrimSpace(a.state.input.Value())
	if input == "" || a.state.busy {
		return nil
	}

	// Handle slash commands
	if strings.HasPrefix(input, "/") {
		switch strings.ToLower(input) {
		case "/help", "/h":
			a.view = viewHelp
			a.state.input.Reset()
			return nil
		case "/settings", "/s":
			a.openSettings()
			a.state.input.Reset()
			return nil
		case "/clear":
			a.state.history = nil
			a.refresh()
			a.state.input.Reset()
			return nil
		case "/quit", "/q":
			a.quitting = true
			return tea.Quit
		}
	}

	if !a.state.providerReady {
		return nil
	}

	a.state.input.Reset()
	a.state.input.Blur()
	a.appendMessage(message{role: "user", content: input})
	a.state.busy = true
	a.state.turnStart = time.Now()

	return tea.Batch(a.state.spinner.Tick, a.runTurn(input))
}

func (a *App) openSettings() {
	a.view = viewSettings
	a.state.settingsMode = ""
	a.state.settingsSelected = 0
}

func (a *App) appendMessage(m message) {
	a.state.history = append(a.state.history, m)
	a.refresh()
}

// sessionStatus is a copy of the session taken on the turn's goroutine so
// View never reads live session state.
type sessionStatus struct {
	hasDraft  bool
	to        string
	subject   string
	version   int
	source    string
	sent      bool
	pending   bool
	revision  bool
	sessionID string
}

func snapshot(s *session.Session) sessionStatus {
	if s == nil {
		return sessionStatus{}
	}
	st := sessionStatus{
		sessionID: s.ID,
		pending:   s.Pending() != nil,
		revision:  s.Revision() != nil,
	}
	if d := s.Draft(); d != nil {
		st.hasDraft = true
		st.to = d.Recipient
		st.subject = d.Subject
		st.version = d.Version()
		st.source = string(d.Source())
		st.sent = d.Sent()
	}
	return st
}

type setupCompleteMsg struct{}
type settingsSavedMsg struct{}
type setupErrorMsg struct{ error }
type providerErrorMsg struct{ error }

type backendReadyMsg struct {
	backend Backend
	status  sessionStatus
}

type turnDoneMsg struct {
	result  *agent.Result
	err     error
	elapsed time.Duration
	status  sessionStatus
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderChat()
	}
}
