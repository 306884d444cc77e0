// Package orchestrator runs one dialogue turn at a time: the confirmation
// gate first, then command parsing, routing to a capability, and the session
// updates that follow from the capability's result.
//
// Provider failures abort the turn with an error and leave the session as it
// was. Everything else, including malformed model output and missing
// arguments, comes back as a normal result that tells the user what to do
// next.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
	"github.com/sant0-9/quill/internal/mailbox"
	"github.com/sant0-9/quill/internal/prompts"
	"github.com/sant0-9/quill/internal/session"
)

// Editor is the blocking external editor used by manual revisions.
type Editor interface {
	Edit(ctx context.Context, body string) (string, bool, error)
}

// OverwritePolicy decides what happens to an unsent draft when a new one is
// created.
type OverwritePolicy string

const (
	// OverwriteWarn replaces the draft and names the superseded one.
	OverwriteWarn OverwritePolicy = "warn"
	// OverwriteDiscard replaces the draft silently.
	OverwriteDiscard OverwritePolicy = "discard"
)

type Config struct {
	LLM       agent.Chatter
	Mailbox   mailbox.Provider
	Editor    Editor
	Prompts   *prompts.Library
	Profile   agent.Profile
	Overwrite OverwritePolicy
	Logger    *zap.Logger
}

type Orchestrator struct {
	mu sync.Mutex

	session *session.Session
	qa      *agent.QA
	email   *agent.Email
	mail    mailbox.Provider
	editor  Editor
	policy  OverwritePolicy
	paths   []draftPath
	log     *zap.Logger
}

func New(cfg Config) *Orchestrator {
	lib := cfg.Prompts
	if lib == nil {
		lib = prompts.MustLoadBuiltin()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := cfg.Overwrite
	if policy == "" {
		policy = OverwriteWarn
	}

	s := session.New()
	return &Orchestrator{
		session: s,
		qa:      agent.NewQA(cfg.LLM, lib),
		email:   agent.NewEmail(cfg.LLM, cfg.Mailbox, cfg.Profile, lib),
		mail:    cfg.Mailbox,
		editor:  cfg.Editor,
		policy:  policy,
		paths:   draftPaths(),
		log:     log.With(zap.String("session", s.ID)),
	}
}

// Session exposes the dialogue state for display. Callers must not mutate it.
func (o *Orchestrator) Session() *session.Session {
	return o.session
}

// turn is one parsed user input.
type turn struct {
	text string
	cmd  command.ParsedCommand

	// followUp is set when text answers an earlier request for a revision
	// instruction.
	followUp *session.PendingRevision
}

// capability is the closed set of handlers a turn is dispatched to.
type capability interface {
	handle(ctx context.Context, t turn) (*agent.Result, error)
}

type qaCapability struct{ o *Orchestrator }

func (c qaCapability) handle(ctx context.Context, t turn) (*agent.Result, error) {
	return c.o.qa.Answer(ctx, t.text)
}

func (o *Orchestrator) capability(kind agent.Kind) capability {
	switch kind {
	case agent.KindEmail:
		return emailCapability{o}
	default:
		return qaCapability{o}
	}
}

// Handle processes one user turn. Turns are serialized.
func (o *Orchestrator) Handle(ctx context.Context, text string) (*agent.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	text = strings.TrimSpace(text)

	if res, claimed, err := o.gate(ctx, text); claimed {
		o.log.Info("turn", zap.String("gate", "pending_send"), zap.Bool("error", err != nil))
		return res, err
	}

	t := turn{text: text, cmd: command.Parse(text)}
	kind := Route(t.cmd, text)

	// Free text answers a pending revision prompt unless it is a new draft
	// request. Any other action drops the prompt; cancel reports it.
	rev := o.session.Revision()
	if rev != nil {
		switch {
		case t.cmd.Action == command.ActionNewEmail && !startsNewDraft(text):
			t.followUp = rev
			kind = agent.KindEmail
		case t.cmd.Action == command.ActionCancel:
		default:
			o.session.ClearRevision()
		}
	}

	o.log.Info("turn",
		zap.String("action", string(t.cmd.Action)),
		zap.String("capability", string(kind)),
		zap.String("gate", "none"),
		zap.Bool("follow_up", t.followUp != nil),
	)

	res, err := o.capability(kind).handle(ctx, t)
	if err != nil {
		o.log.Warn("turn failed", zap.String("capability", string(kind)), zap.Error(err))
		if rev != nil && o.session.Revision() == nil {
			o.session.AwaitInstruction(rev.Mode)
		}
		return nil, err
	}
	return res, nil
}

func result(format string, args ...any) *agent.Result {
	if len(args) == 0 {
		return &agent.Result{Content: format}
	}
	return &agent.Result{Content: fmt.Sprintf(format, args...)}
}
