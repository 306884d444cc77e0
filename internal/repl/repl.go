// Package repl is the plain line-oriented front end.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sant0-9/quill/internal/agent"
)

// ExitWords end the loop before they reach the orchestrator.
var ExitWords = []string{"q", "quit", "exit"}

const (
	userPrompt      = "You> "
	assistantPrefix = "Assistant> "
)

type Handler interface {
	Handle(ctx context.Context, text string) (*agent.Result, error)
}

// Run reads one line at a time and prints each response. A failed turn is
// reported and the loop continues so the user can retry. It returns when in
// is exhausted, an exit word is read or ctx is done.
func Run(ctx context.Context, h Handler, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(out, "quill: type `help` for commands, `quit` to leave.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if slices.Contains(ExitWords, strings.ToLower(line)) {
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		res, err := h.Handle(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "%sError: %v\n\n", assistantPrefix, err)
			continue
		}
		fmt.Fprintf(out, "%s%s\n\n", assistantPrefix, res.Content)
	}
}
