package agent

import (
	"context"

	"github.com/sant0-9/quill/internal/prompts"
)

// QA forwards text to the model with an answer-in-kind instruction. It keeps
// no conversation history.
type QA struct {
	llm     Chatter
	prompts *prompts.Library
}

func NewQA(c Chatter, lib *prompts.Library) *QA {
	return &QA{llm: c, prompts: lib}
}

func (q *QA) Answer(ctx context.Context, text string) (*Result, error) {
	content, msgs, err := complete(ctx, q.llm, q.prompts, prompts.QA, prompts.Data{}, text)
	if err != nil {
		return nil, err
	}
	return &Result{Content: content, Messages: msgs}, nil
}
