package session

import (
	"errors"
	"strings"
)

// Source records who authored the current draft body
type Source string

const (
	SourceGenerated Source = "generated"
	SourceHuman     Source = "human"
	SourceMixed     Source = "mixed"
)

// Author is the party performing a mutation
type Author int

const (
	AuthorModel Author = iota
	AuthorHuman
)

func (a Author) String() string {
	if a == AuthorHuman {
		return "human"
	}
	return "model"
}

// After returns the provenance that results from author touching a body
// with provenance s. Generated never comes back once a human has edited.
func (s Source) After(author Author) Source {
	switch author {
	case AuthorHuman:
		if s == SourceGenerated {
			return SourceHuman
		}
		return SourceMixed
	default:
		if s == SourceGenerated {
			return SourceGenerated
		}
		return SourceMixed
	}
}

var (
	ErrEmptyBody  = errors.New("draft body is empty")
	ErrDraftSent  = errors.New("draft has already been sent")
	ErrNoExternal = errors.New("draft has no external id")
)

// Draft is the single email in progress. Version and source are only
// changed through Revise so the invariants hold for the draft's lifetime.
type Draft struct {
	Recipient  string
	Subject    string
	ExternalID string

	body    string
	version int
	source  Source

	sentMessageID string
}

// NewDraft creates a model-authored draft at version 1.
func NewDraft(recipient, subject, body, externalID string) (*Draft, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	if externalID == "" {
		return nil, ErrNoExternal
	}
	return &Draft{
		Recipient:  recipient,
		Subject:    subject,
		ExternalID: externalID,
		body:       body,
		version:    1,
		source:     SourceGenerated,
	}, nil
}

func (d *Draft) Body() string   { return d.body }
func (d *Draft) Version() int   { return d.version }
func (d *Draft) Source() Source { return d.source }

// Sent reports whether the draft has been delivered.
func (d *Draft) Sent() bool { return d.sentMessageID != "" }

// SentMessageID is the provider message id returned on send.
func (d *Draft) SentMessageID() string { return d.sentMessageID }

// Revise replaces the body, bumps the version by one and advances the
// provenance lattice.
func (d *Draft) Revise(body string, author Author) error {
	if d.Sent() {
		return ErrDraftSent
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	d.body = body
	d.version++
	d.source = d.source.After(author)
	return nil
}

// MarkSent records the delivered message id.
func (d *Draft) MarkSent(messageID string) {
	if messageID == "" {
		messageID = "unknown"
	}
	d.sentMessageID = messageID
}
