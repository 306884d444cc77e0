// Package session holds the per-process dialogue state: the active draft,
// the pending irreversible action and a pending revision prompt.
//
// A Session is plain data. The orchestrator owns it and serializes access.
package session

import (
	"github.com/google/uuid"
	"github.com/sant0-9/quill/internal/command"
)

// ActionKind names an irreversible action awaiting approval
type ActionKind string

const ActionSend ActionKind = "send"

// PendingConfirmation is an irreversible request waiting for explicit approval
type PendingConfirmation struct {
	Kind            ActionKind
	ExternalDraftID string
	Recipient       string
	Subject         string
}

// PendingRevision remembers a revise request that still needs an instruction
type PendingRevision struct {
	Mode command.Mode
}

// Session is the process-lifetime container for dialogue state
type Session struct {
	ID string

	draft    *Draft
	pending  *PendingConfirmation
	revision *PendingRevision
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Draft returns the active draft or nil.
func (s *Session) Draft() *Draft {
	return s.draft
}

// Install makes d the active draft and returns the one it replaced, if any.
func (s *Session) Install(d *Draft) *Draft {
	prev := s.draft
	s.draft = d
	s.revision = nil
	return prev
}

// Pending returns the outstanding confirmation or nil.
func (s *Session) Pending() *PendingConfirmation {
	return s.pending
}

// RequestSend arms the confirmation gate for d, superseding any prior request.
func (s *Session) RequestSend(d *Draft) *PendingConfirmation {
	s.pending = &PendingConfirmation{
		Kind:            ActionSend,
		ExternalDraftID: d.ExternalID,
		Recipient:       d.Recipient,
		Subject:         d.Subject,
	}
	return s.pending
}

// ClearPending drops the outstanding confirmation.
func (s *Session) ClearPending() {
	s.pending = nil
}

func (s *Session) Revision() *PendingRevision {
	return s.revision
}

func (s *Session) AwaitInstruction(mode command.Mode) {
	s.revision = &PendingRevision{Mode: mode}
}

func (s *Session) ClearRevision() {
	s.revision = nil
}
