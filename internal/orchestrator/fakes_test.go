package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sant0-9/quill/internal/llm"
	"github.com/sant0-9/quill/internal/mailbox"
)

type scriptedLLM struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (s *scriptedLLM) Chat(ctx context.Context, msgs []llm.Message, opts ...llm.ChatOption) (*llm.CompletionResponse, error) {
	s.calls = append(s.calls, msgs)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return &llm.CompletionResponse{Content: r}, nil
}

func (s *scriptedLLM) push(replies ...string) {
	s.replies = append(s.replies, replies...)
}

type memMailbox struct {
	drafts  map[string]mailbox.Message
	created int
	updates int
	sent    []string
	next    int

	sendErr   error
	updateErr error
}

func newMemMailbox() *memMailbox {
	return &memMailbox{drafts: map[string]mailbox.Message{}}
}

func (m *memMailbox) Name() string { return "mem" }

func (m *memMailbox) ListRecent(ctx context.Context, opts mailbox.ListOptions) ([]mailbox.Header, error) {
	return []mailbox.Header{{ID: "1", From: "a@b.co", Subject: "hello", Date: "today"}}, nil
}

func (m *memMailbox) CreateDraft(ctx context.Context, msg mailbox.Message) (string, error) {
	m.next++
	m.created++
	id := fmt.Sprintf("d-%d", m.next)
	m.drafts[id] = msg
	return id, nil
}

func (m *memMailbox) UpdateDraft(ctx context.Context, id string, msg mailbox.Message) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	m.drafts[id] = msg
	return nil
}

func (m *memMailbox) SendDraft(ctx context.Context, id string) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, id)
	return "m-" + id, nil
}

type fakeEditor struct {
	out   string
	err   error
	calls int
}

func (e *fakeEditor) Edit(ctx context.Context, body string) (string, bool, error) {
	e.calls++
	if e.err != nil {
		return "", false, e.err
	}
	if e.out == "" || e.out == body {
		return body, false, nil
	}
	return e.out, true, nil
}
