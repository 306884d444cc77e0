// Package gmail implements the mailbox provider on top of the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/sant0-9/quill/internal/mailbox"
)

const (
	user      = "me"
	inboxID   = "INBOX"
	name      = "gmail"
	maxResult = 100
)

type Provider struct {
	svc *gmail.Service
}

// New builds a provider from client options, typically an authorized HTTP
// client from Authorize.
func New(ctx context.Context, opts ...option.ClientOption) (*Provider, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Provider{svc: svc}, nil
}

func (p *Provider) Name() string {
	return name
}

// Query renders the Gmail search expression for opts.
func Query(opts mailbox.ListOptions) string {
	var parts []string
	if opts.Days > 0 {
		parts = append(parts, fmt.Sprintf("newer_than:%dd", opts.Days))
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

func (p *Provider) ListRecent(ctx context.Context, opts mailbox.ListOptions) ([]mailbox.Header, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > maxResult {
		limit = maxResult
	}

	call := p.svc.Users.Messages.List(user).
		LabelIds(inboxID).
		MaxResults(int64(limit)).
		Context(ctx)
	if q := Query(opts); q != "" {
		call = call.Q(q)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, mailbox.Wrap(name, "list", err)
	}

	headers := make([]mailbox.Header, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		full, err := p.svc.Users.Messages.Get(user, m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, mailbox.Wrap(name, "get message", err)
		}
		headers = append(headers, toHeader(full))
	}
	return headers, nil
}

func toHeader(m *gmail.Message) mailbox.Header {
	h := mailbox.Header{ID: m.Id, ThreadID: m.ThreadId, Snippet: m.Snippet}
	if m.Payload == nil {
		return h
	}
	for _, kv := range m.Payload.Headers {
		switch strings.ToLower(kv.Name) {
		case "from":
			h.From = kv.Value
		case "subject":
			h.Subject = kv.Value
		case "date":
			h.Date = kv.Value
		}
	}
	return h
}

func rawMessage(msg mailbox.Message) (*gmail.Message, error) {
	raw, err := mailbox.BuildRaw("", msg)
	if err != nil {
		return nil, err
	}
	return &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}, nil
}

func (p *Provider) CreateDraft(ctx context.Context, msg mailbox.Message) (string, error) {
	m, err := rawMessage(msg)
	if err != nil {
		return "", mailbox.Wrap(name, "create draft", err)
	}
	d, err := p.svc.Users.Drafts.Create(user, &gmail.Draft{Message: m}).Context(ctx).Do()
	if err != nil {
		return "", mailbox.Wrap(name, "create draft", err)
	}
	return d.Id, nil
}

func (p *Provider) UpdateDraft(ctx context.Context, id string, msg mailbox.Message) error {
	m, err := rawMessage(msg)
	if err != nil {
		return mailbox.Wrap(name, "update draft", err)
	}
	_, err = p.svc.Users.Drafts.Update(user, id, &gmail.Draft{Id: id, Message: m}).Context(ctx).Do()
	return mailbox.Wrap(name, "update draft", err)
}

func (p *Provider) SendDraft(ctx context.Context, id string) (string, error) {
	m, err := p.svc.Users.Drafts.Send(user, &gmail.Draft{Id: id}).Context(ctx).Do()
	if err != nil {
		return "", mailbox.Wrap(name, "send draft", err)
	}
	return m.Id, nil
}
