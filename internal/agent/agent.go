// Package agent implements the two capabilities a turn can be dispatched to:
// question answering and email. Agents are stateless; the orchestrator owns
// the session and decides what to do with their results.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sant0-9/quill/internal/llm"
	"github.com/sant0-9/quill/internal/prompts"
)

// Kind is the closed set of capabilities.
type Kind string

const (
	KindQA    Kind = "qa"
	KindEmail Kind = "email"
)

// Result is the user-facing outcome of one unit of work.
type Result struct {
	Content  string
	Messages []llm.Message
}

// Chatter is the part of llm.Client the agents use.
type Chatter interface {
	Chat(ctx context.Context, msgs []llm.Message, opts ...llm.ChatOption) (*llm.CompletionResponse, error)
}

// Profile describes the user the assistant writes for.
type Profile struct {
	Name              string
	Signature         string
	Language          string
	ImportantSenders  []string
	ImportantKeywords []string
}

func (p Profile) data() prompts.Data {
	name := p.Name
	if name == "" {
		name = "Me"
	}
	sig := p.Signature
	if strings.TrimSpace(sig) == "" {
		sig = "Best regards,\n" + name
	}
	lang := strings.ToLower(p.Language)
	if lang == "" {
		lang = "en"
	}
	return prompts.Data{Name: name, Signature: sig, Language: lang, Marker: MissingRecipientMarker}
}

// complete renders a template and sends it. System templates are followed by
// the user text; user templates are sent on their own.
func complete(ctx context.Context, c Chatter, lib *prompts.Library, name string, data prompts.Data, user string) (string, []llm.Message, error) {
	p, err := lib.Get(name)
	if err != nil {
		return "", nil, err
	}
	rendered, err := p.Render(data)
	if err != nil {
		return "", nil, err
	}

	var msgs []llm.Message
	if p.Role == llm.RoleUser {
		msgs = []llm.Message{llm.User(rendered)}
	} else {
		msgs = []llm.Message{llm.System(rendered), llm.User(user)}
	}

	var opts []llm.ChatOption
	if p.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*p.Temperature))
	}
	if p.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(p.MaxTokens))
	}

	resp, err := c.Chat(ctx, msgs, opts...)
	if err != nil {
		return "", msgs, fmt.Errorf("%s: %w", name, err)
	}
	return resp.Content, msgs, nil
}
