package orchestrator

import (
	"fmt"
	"strings"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/session"
)

const HelpText = `Commands:
  help, h, ?                     show this help
  show, ls, view, print          show the current draft
  manual                         edit the draft in your editor
  edit <instruction>             revise the draft with an instruction
  rewrite <instruction>          rewrite the draft from scratch (also regenerate, regen)
  revise <m|e|re> <instruction>  revise with an explicit mode
  send, s                        ask to send the current draft
  cancel, c                      cancel a pending revision

Drafting:
  to=alice@example.com subject="Hi" content="what to say"
  draft an email to bob@example.com about rescheduling

Mailbox:
  summarize my inbox

While a send is pending, type CONFIRM SEND to send or CANCEL to keep the draft.
Anything else is answered as a general question.`

const UsageText = "I can draft, revise and send emails, or summarize your inbox.\n\n" +
	"- `to=alice@example.com subject=\"Hi\" content=\"...\"`\n" +
	"- `draft an email to bob@example.com about rescheduling`\n" +
	"- `summarize my inbox`\n\n" +
	"Type `help` for all commands."

// NextSteps follows every newly created draft.
const NextSteps = "Next steps:\n" +
	"- `manual` to edit it yourself\n" +
	"- `edit <instruction>` to revise it, e.g. `edit make it shorter`\n" +
	"- `regenerate <instruction>` to rewrite it from scratch\n" +
	"- `show` to view it again\n" +
	"- `CONFIRM SEND` to send it, `CANCEL` to keep it as a draft"

func renderDraft(d *session.Draft) string {
	return fmt.Sprintf("To: %s\nSubject: %s\n\n%s", d.Recipient, d.Subject, d.Body())
}

func (o *Orchestrator) show() *agent.Result {
	d := o.session.Draft()
	if d == nil {
		return result("There is no draft yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Draft %s (version %d, %s)\n\n", d.ExternalID, d.Version(), d.Source())
	b.WriteString(renderDraft(d))
	switch {
	case d.Sent():
		fmt.Fprintf(&b, "\n\nSent (Message ID: %s).", d.SentMessageID())
	case o.session.Pending() != nil:
		b.WriteString("\n\n")
		b.WriteString(GatePrompt)
	}
	return &agent.Result{Content: b.String()}
}
