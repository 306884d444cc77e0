package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
	"github.com/sant0-9/quill/internal/editor"
	"github.com/sant0-9/quill/internal/mailbox"
	"github.com/sant0-9/quill/internal/session"
)

const alreadySent = "That draft was already sent (Message ID: %s). Start a new draft to write another email."

// revise mutates the active draft body. The new body is computed first, then
// pushed to the provider, and only then applied locally, so a failure at any
// step leaves the draft as it was.
func (o *Orchestrator) revise(ctx context.Context, mode command.Mode, instruction string) (*agent.Result, error) {
	d := o.session.Draft()
	switch {
	case d == nil:
		return result("There is no draft to revise. Draft an email first, e.g. `to=alice@example.com subject=\"Hi\" content=\"...\"`."), nil
	case d.Sent():
		return result(alreadySent, d.SentMessageID()), nil
	}

	instruction = strings.TrimSpace(instruction)

	var (
		body   string
		author = session.AuthorModel
		err    error
	)
	switch mode {
	case command.ModeManual:
		var changed bool
		body, changed, err = o.editManually(ctx, d.Body())
		if err != nil {
			return nil, err
		}
		if !changed {
			o.session.ClearRevision()
			return result("No change. The draft is still version %d.", d.Version()), nil
		}
		author = session.AuthorHuman

	case command.ModeRegenerate:
		body, err = o.email.RegenerateBody(ctx, d.Recipient, d.Subject, d.Body(), instruction)
		if err != nil {
			return nil, err
		}

	default:
		if instruction == "" {
			return o.askInstruction(), nil
		}
		body, err = o.email.EditBody(ctx, d.Recipient, d.Subject, d.Body(), instruction)
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(body) == "" {
		o.log.Warn("revision produced empty body", zap.String("mode", string(mode)))
		return result("The revision came back empty, so the draft is unchanged. Try again with a different instruction."), nil
	}

	if d.ExternalID != "" {
		err := o.mail.UpdateDraft(ctx, d.ExternalID, mailbox.Message{To: d.Recipient, Subject: d.Subject, Body: body})
		if err != nil {
			return nil, err
		}
	}
	if err := d.Revise(body, author); err != nil {
		return nil, err
	}
	o.session.ClearRevision()

	o.log.Info("draft_revised",
		zap.String("mode", string(mode)),
		zap.String("draft_id", d.ExternalID),
		zap.Int("version", d.Version()),
		zap.String("source", string(d.Source())),
	)

	return &agent.Result{Content: o.revised(d, mode)}, nil
}

func (o *Orchestrator) editManually(ctx context.Context, body string) (string, bool, error) {
	if o.editor == nil {
		return "", false, fmt.Errorf("manual revision: %w\n%s", editor.ErrNotFound, editor.Remediation)
	}
	out, changed, err := o.editor.Edit(ctx, body)
	if err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			o.log.Warn("editor not found", zap.Error(err))
		}
		return "", false, fmt.Errorf("manual revision: %w", err)
	}
	return out, changed, nil
}

// askInstruction asks for the missing edit instruction. While a send is
// pending the gate would swallow a bare follow-up, so the user is asked to
// repeat the command instead.
func (o *Orchestrator) askInstruction() *agent.Result {
	if o.session.Pending() != nil {
		return result("What should I change? Reply with `edit <instruction>`, e.g. `edit make it shorter`.")
	}
	o.session.AwaitInstruction(command.ModeEdit)
	return result("What should I change? Your next message is used as the edit instruction, e.g. \"make it shorter and more formal\". Type `cancel` to leave the draft as it is.")
}

func (o *Orchestrator) revised(d *session.Draft, mode command.Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft updated (%s, version %d, %s).\n\n", mode, d.Version(), d.Source())
	b.WriteString(renderDraft(d))
	if o.session.Pending() != nil {
		b.WriteString("\n\n")
		b.WriteString(GatePrompt)
	} else {
		b.WriteString("\n\nType `send` when you're ready to send it.")
	}
	return b.String()
}
