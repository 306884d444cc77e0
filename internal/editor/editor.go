// Package editor hands text to an external editor and reads it back.
//
// Each Edit call is a scoped session: the text is written to a scratch file
// in a fresh temp dir, the first available editor runs with the terminal
// attached, and the temp dir is removed on every exit path.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const scratchName = "draft.md"

var ErrNotFound = errors.New("no editor found")

// NotFoundError lists the commands that were tried.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no editor found (tried %s).\n%s", strings.Join(e.Tried, ", "), Remediation)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

const Remediation = `Fix one of:
1) Set editor.command in ~/.config/quill/config.yaml, or export QUILL_EDITOR / EDITOR
2) Install the VS Code CLI: open VS Code, press Ctrl+Shift+P,
   run "Shell Command: Install 'code' command in PATH", then restart your terminal.`

// DefaultCandidates are tried after the configured and environment editors.
var DefaultCandidates = [][]string{
	{"code", "--wait", "--reuse-window"},
	{"code.cmd", "--wait", "--reuse-window"},
}

type Editor struct {
	Candidates [][]string

	// LookPath resolves an executable; exec.LookPath by default.
	LookPath func(string) (string, error)

	// Run executes argv with the terminal attached and blocks until it exits.
	Run func(ctx context.Context, argv []string) error

	// Suspend, when set, wraps the editor run so a full-screen UI can hand
	// over the terminal.
	Suspend func(run func() error) error
}

// New builds the candidate list: the configured command, then $QUILL_EDITOR,
// $VISUAL and $EDITOR, then the VS Code CLI.
func New(configured []string, getenv func(string) string) *Editor {
	var candidates [][]string
	if len(configured) > 0 {
		candidates = append(candidates, configured)
	}
	for _, key := range []string{"QUILL_EDITOR", "VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(key)); len(fields) > 0 {
			candidates = append(candidates, fields)
		}
	}
	candidates = append(candidates, DefaultCandidates...)

	return &Editor{
		Candidates: candidates,
		LookPath:   exec.LookPath,
		Run:        runAttached,
	}
}

func runAttached(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Resolve returns the first candidate whose executable exists.
func (e *Editor) Resolve() ([]string, error) {
	var tried []string
	for _, c := range e.Candidates {
		if len(c) == 0 {
			continue
		}
		tried = append(tried, c[0])
		if _, err := e.LookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, &NotFoundError{Tried: tried}
}

// Edit opens body in the editor and returns the edited text. changed is
// false when the result is empty or the same as body, ignoring surrounding
// whitespace.
func (e *Editor) Edit(ctx context.Context, body string) (string, bool, error) {
	argv, err := e.Resolve()
	if err != nil {
		return "", false, err
	}

	dir, err := os.MkdirTemp("", "quill-edit-*")
	if err != nil {
		return "", false, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, scratchName)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		return "", false, fmt.Errorf("write scratch file: %w", err)
	}

	full := append(append([]string{}, argv...), path)
	run := func() error { return e.Run(ctx, full) }
	if e.Suspend != nil {
		err = e.Suspend(run)
	} else {
		err = run()
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", false, &NotFoundError{Tried: []string{argv[0]}}
		}
		return "", false, fmt.Errorf("editor %s: %w", argv[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read scratch file: %w", err)
	}

	edited := strings.TrimSpace(string(data))
	if edited == "" || edited == strings.TrimSpace(body) {
		return "", false, nil
	}
	return edited, true, nil
}
