package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		in   string
		want agent.Kind
	}{
		{"show", agent.KindEmail},
		{"help", agent.KindEmail},
		{"edit make it shorter", agent.KindEmail},
		{"s", agent.KindEmail},
		{"cancel", agent.KindEmail},
		{"Summarize my INBOX", agent.KindEmail},
		{"帮我看看收件箱", agent.KindEmail},
		{"to=alice@x.com subject=Hi", agent.KindEmail},
		{"内容 = 你好", agent.KindEmail},
		{"what is the capital of France?", agent.KindQA},
		{"CONFIRM", agent.KindQA},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(command.Parse(tt.in), tt.in))
		})
	}
}

func TestGateBypassPrefixes(t *testing.T) {
	for _, in := range []string{"Revise e x", "EDIT shorter", "rewrite", "regenerate please", "manual", "Show"} {
		assert.True(t, hasPrefixAny(strings.ToLower(in), GateBypassPrefixes), in)
	}
	for _, in := range []string{"send", "r e shorter", "ls", "confirm"} {
		assert.False(t, hasPrefixAny(strings.ToLower(in), GateBypassPrefixes), in)
	}
}
