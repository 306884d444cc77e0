package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
	"github.com/sant0-9/quill/internal/session"
)

// draftOutcome is what a drafting path produced: either a provider draft to
// install, or a result to show as is.
type draftOutcome struct {
	drafted *agent.Drafted
	result  *agent.Result
}

// draftPath is one row of the drafting transition table. The first path
// whose trigger holds runs.
type draftPath struct {
	name    string
	trigger func(text string, args command.DraftArgs) bool
	run     func(ctx context.Context, o *Orchestrator, text string, args command.DraftArgs) (*draftOutcome, error)
}

func draftPaths() []draftPath {
	return []draftPath{
		{
			name:    "structured",
			trigger: func(_ string, args command.DraftArgs) bool { return args.Structured() },
			run:     runStructured,
		},
		{
			name:    "free_text",
			trigger: func(text string, _ command.DraftArgs) bool { return agent.WantsDraft(text) },
			run:     runFreeText,
		},
	}
}

func runStructured(ctx context.Context, o *Orchestrator, _ string, args command.DraftArgs) (*draftOutcome, error) {
	d, err := o.email.DraftStructured(ctx, args.To, args.Subject, args.Content)
	if errors.Is(err, agent.ErrEmptyBody) {
		o.log.Info("draft not created", zap.String("reason", "empty body"))
		return &draftOutcome{result: &agent.Result{Content: emptyBody}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &draftOutcome{drafted: d}, nil
}

func runFreeText(ctx context.Context, o *Orchestrator, text string, args command.DraftArgs) (*draftOutcome, error) {
	out, err := o.email.DraftFreeText(ctx, text, args.To)
	if err != nil {
		return nil, err
	}

	switch out.Status {
	case agent.FreeTextCreated:
		return &draftOutcome{drafted: out.Draft}, nil
	case agent.FreeTextNeedsRecipient:
		return &draftOutcome{result: &agent.Result{Content: needsRecipient(out), Messages: out.Messages}}, nil
	default:
		o.log.Info("draft not created", zap.String("reason", "unparsed model output"))
		return &draftOutcome{result: &agent.Result{Content: out.Content, Messages: out.Messages}}, nil
	}
}

// startsNewDraft reports text that asks for a different email rather than a
// change to the current one: explicit to= and subject= arguments, or drafting
// intent aimed at an address.
func startsNewDraft(text string) bool {
	if command.ExtractDraftArgs(text).Structured() {
		return true
	}
	return agent.WantsDraft(text) && agent.ExtractAddress(text) != ""
}

// draft runs the first matching drafting path. ok is false when no path
// applies.
func (o *Orchestrator) draft(ctx context.Context, text string) (*agent.Result, bool, error) {
	args := command.ExtractDraftArgs(text)
	for _, p := range o.paths {
		if !p.trigger(text, args) {
			continue
		}
		out, err := p.run(ctx, o, text, args)
		if err != nil {
			return nil, true, err
		}
		if out.drafted == nil {
			return out.result, true, nil
		}
		res, err := o.install(p.name, out.drafted)
		return res, true, err
	}
	return nil, false, nil
}

// install makes a freshly created provider draft the active one and arms
// the confirmation gate. Both drafting paths end here.
func (o *Orchestrator) install(path string, d *agent.Drafted) (*agent.Result, error) {
	draft, err := session.NewDraft(d.To, d.Subject, d.Body, d.ExternalID)
	if err != nil {
		return nil, err
	}

	prev := o.session.Install(draft)
	o.session.RequestSend(draft)

	o.log.Info("draft_created",
		zap.String("path", path),
		zap.String("draft_id", draft.ExternalID),
		zap.String("to", draft.Recipient),
		zap.Int("version", draft.Version()),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Draft saved at %s (draft id %s).\n\nTo: %s\nSubject: %s\n\n%s\n\n",
		o.mail.Name(), draft.ExternalID, draft.Recipient, draft.Subject, draft.Body())
	b.WriteString(NextSteps)

	if prev != nil && !prev.Sent() && prev.ExternalID != draft.ExternalID && o.policy == OverwriteWarn {
		o.log.Info("draft superseded", zap.String("draft_id", prev.ExternalID))
		fmt.Fprintf(&b, "\n\nNote: this replaces your unsent draft to %s (%q, draft id %s). It is still saved at %s.",
			prev.Recipient, prev.Subject, prev.ExternalID, o.mail.Name())
	}

	return &agent.Result{Content: b.String(), Messages: d.Messages}, nil
}

const emptyBody = "The model came back with an empty email body, so no draft was saved. Try again, or add more detail in content=\"...\"."

func needsRecipient(out *agent.FreeTextOutcome) string {
	var b strings.Builder
	b.WriteString("I wrote the email but don't know who it goes to, so no draft was saved yet.\n\n")
	if out.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n\n", out.Subject)
	}
	b.WriteString(out.Content)
	b.WriteString("\n\nTell me the recipient's address, e.g. `draft an email to=name@example.com ...`, and I'll create the draft.")
	return b.String()
}
