// Package mailbox defines the email provider the assistant drafts and sends
// through. Drafts are identified by opaque ids issued by the provider.
//
// SendDraft is the only irreversible call. Callers must gate it behind an
// explicit user confirmation.
package mailbox

import (
	"context"
	"fmt"
)

// Header is the metadata of one message in a listing.
type Header struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Date     string
	Snippet  string
}

// Message is the editable content of a draft.
type Message struct {
	To      string
	Subject string
	Body    string
}

type ListOptions struct {
	Limit int
	// Days limits the listing to messages newer than this many days; zero
	// means no window.
	Days  int
	Query string
}

type Provider interface {
	Name() string
	ListRecent(ctx context.Context, opts ListOptions) ([]Header, error)
	CreateDraft(ctx context.Context, msg Message) (string, error)
	UpdateDraft(ctx context.Context, id string, msg Message) error
	SendDraft(ctx context.Context, id string) (string, error)
}

// ProviderError wraps a failed provider operation.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err.
func Wrap(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}
