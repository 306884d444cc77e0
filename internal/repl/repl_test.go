package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/quill/internal/agent"
)

type echo struct {
	seen []string
	fail string
}

func (e *echo) Handle(ctx context.Context, text string) (*agent.Result, error) {
	e.seen = append(e.seen, text)
	if text == e.fail {
		return nil, errors.New("provider unavailable")
	}
	return &agent.Result{Content: "echo: " + text}, nil
}

func TestRun(t *testing.T) {
	h := &echo{fail: "boom"}
	var out bytes.Buffer

	err := Run(context.Background(), h, strings.NewReader("hello\n  boom \nshow\nQuit\nnever\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "boom", "show"}, h.seen)
	assert.Contains(t, out.String(), "Assistant> echo: hello")
	assert.Contains(t, out.String(), "Assistant> Error: provider unavailable")
	assert.Contains(t, out.String(), "Bye.")
	assert.NotContains(t, out.String(), "never")
}

func TestRunEOF(t *testing.T) {
	h := &echo{}
	var out bytes.Buffer

	require.NoError(t, Run(context.Background(), h, strings.NewReader("hi"), &out))
	assert.Equal(t, []string{"hi"}, h.seen)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, &echo{}, strings.NewReader("hi\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
