package agent

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
	reqs    []*llm.CompletionRequest
}

func (s *scriptedLLM) Chat(ctx context.Context, msgs []llm.Message, opts ...llm.ChatOption) (*llm.CompletionResponse, error) {
	req := &llm.CompletionRequest{Messages: msgs}
	for _, o := range opts {
		o(req)
	}
	s.calls = append(s.calls, msgs)
	s.reqs = append(s.reqs, req)
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

func (s *scriptedLLM) last() []llm.Message {
	return s.calls[len(s.calls)-1]
}

type memMailbox struct {
	headers []mailbox.Header
	listOpt mailbox.ListOptions
	drafts  map[string]mailbox.Message
	next    int
	err     error
}

func newMemMailbox() *memMailbox {
	return &memMailbox{drafts: map[string]mailbox.Message{}}
}

func (m *memMailbox) Name() string { return "mem" }

func (m *memMailbox) ListRecent(ctx context.Context, opts mailbox.ListOptions) ([]mailbox.Header, error) {
	m.listOpt = opts
	return m.headers, m.err
}

func (m *memMailbox) CreateDraft(ctx context.Context, msg mailbox.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.next++
	id := fmt.Sprintf("d-%d", m.next)
	m.drafts[id] = msg
	return id, nil
}

func (m *memMailbox) UpdateDraft(ctx context.Context, id string, msg mailbox.Message) error {
	m.drafts[id] = msg
	return m.err
}

func (m *memMailbox) SendDraft(ctx context.Context, id string) (string, error) {
	return "m-" + id, m.err
}
