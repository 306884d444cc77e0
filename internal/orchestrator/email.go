package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
)

type emailCapability struct{ o *Orchestrator }

func (c emailCapability) handle(ctx context.Context, t turn) (*agent.Result, error) {
	o := c.o

	if t.followUp != nil {
		return o.revise(ctx, t.followUp.Mode, t.text)
	}

	switch t.cmd.Action {
	case command.ActionHelp:
		return &agent.Result{Content: HelpText}, nil
	case command.ActionShow:
		return o.show(), nil
	case command.ActionRevise:
		return o.revise(ctx, t.cmd.Mode(), t.cmd.Instruction())
	case command.ActionSend:
		return o.requestSend(), nil
	case command.ActionCancel:
		return o.cancel(), nil
	}

	if agent.WantsSummary(t.text) {
		o.log.Info("summarize inbox")
		return o.email.SummarizeInbox(ctx, t.text)
	}

	if res, ok, err := o.draft(ctx, t.text); ok || err != nil {
		return res, err
	}

	return &agent.Result{Content: UsageText}, nil
}

// requestSend re-arms the gate for the current draft. Sending itself only
// happens through the gate.
func (o *Orchestrator) requestSend() *agent.Result {
	d := o.session.Draft()
	switch {
	case d == nil:
		return result("There is no draft to send. Draft an email first, e.g. `draft an email to bob@example.com about Friday`.")
	case d.Sent():
		return result(alreadySent, d.SentMessageID())
	}
	p := o.session.RequestSend(d)
	o.log.Info("send requested", zap.String("draft_id", p.ExternalDraftID))
	return result("Ready to send to %s (%s).\n\n%s", p.Recipient, p.Subject, GatePrompt)
}

func (o *Orchestrator) cancel() *agent.Result {
	if o.session.Revision() != nil {
		o.session.ClearRevision()
		return result("Okay, the revision is cancelled. The draft is unchanged.")
	}
	return result("Nothing to cancel.")
}
