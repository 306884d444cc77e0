package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/session"
)

// Tokens recognised only while a send is pending. Comparison is against the
// upper-cased, trimmed input.
var (
	ConfirmTokens = []string{"CONFIRM SEND", "CONFIRM", "YES", "Y"}
	DeclineTokens = []string{"CANCEL", "NO", "N"}
)

// GateBypassPrefixes let revisions and show through a pending send without
// touching it. Matched case-insensitively against the start of the input.
var GateBypassPrefixes = []string{"revise", "edit", "rewrite", "regenerate", "manual", "show"}

const GatePrompt = "You are about to send an email.\n" +
	"- Type `CONFIRM SEND` to send it now\n" +
	"- Type `CANCEL` to keep it as a draft without sending\n" +
	"- Or `show`, `edit <instruction>`, `rewrite <instruction>`, `manual` to change it first"

func matchesAny(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// gate runs before parsing. It claims the turn whenever a send is pending,
// unless the input is a bypass command.
func (o *Orchestrator) gate(ctx context.Context, text string) (*agent.Result, bool, error) {
	p := o.session.Pending()
	if p == nil {
		return nil, false, nil
	}
	if hasPrefixAny(strings.ToLower(text), GateBypassPrefixes) {
		return nil, false, nil
	}

	upper := strings.ToUpper(text)
	switch {
	case matchesAny(upper, ConfirmTokens):
		res, err := o.confirmSend(ctx, p)
		return res, true, err
	case matchesAny(upper, DeclineTokens):
		o.session.ClearPending()
		o.log.Info("send cancelled", zap.String("draft_id", p.ExternalDraftID))
		return result("Sending cancelled. The draft is still saved at %s (draft id %s).", o.mail.Name(), p.ExternalDraftID), true, nil
	default:
		return &agent.Result{Content: GatePrompt}, true, nil
	}
}

// confirmSend is the only caller of SendDraft. The pending request is kept
// if the provider fails so the user can retry.
func (o *Orchestrator) confirmSend(ctx context.Context, p *session.PendingConfirmation) (*agent.Result, error) {
	messageID, err := o.mail.SendDraft(ctx, p.ExternalDraftID)
	if err != nil {
		return nil, err
	}

	o.session.ClearPending()
	if d := o.session.Draft(); d != nil && d.ExternalID == p.ExternalDraftID {
		d.MarkSent(messageID)
	}
	o.log.Info("sent",
		zap.String("draft_id", p.ExternalDraftID),
		zap.String("message_id", messageID),
		zap.String("to", p.Recipient),
	)

	return result("Sent! (Message ID: %s)\nTo: %s\nSubject: %s", messageID, p.Recipient, p.Subject), nil
}
