// Package command turns a line of user text into a ParsedCommand.
//
// Matching is literal and case-insensitive. The word lists are exported so
// callers and tests can enumerate them.
package command

import (
	"slices"
	"strings"
)

var (
	HelpWords   = []string{"help", "h", "?"}
	ShowWords   = []string{"show", "ls", "view", "print"}
	CancelWords = []string{"cancel", "c", "quit", "q", "exit"}
	SendWords   = []string{"send", "s"}

	ManualHeads     = []string{"manual"}
	EditHeads       = []string{"edit"}
	RegenerateHeads = []string{"rewrite", "regenerate", "regen"}
	ReviseHeads     = []string{"revise", "r"}

	// Second-token abbreviations accepted after a revise head.
	ManualModeWords     = []string{"m", "manual"}
	EditModeWords       = []string{"e", "edit"}
	RegenerateModeWords = []string{"re", "rewrite", "regenerate", "regen"}
)

// UnsureConfidence marks a fallback NEW_EMAIL classification.
const UnsureConfidence = 0.5

// Parse classifies text. It never fails: empty input is HELP and anything
// unrecognized is NEW_EMAIL carrying the full text.
func Parse(text string) ParsedCommand {
	t := strings.TrimSpace(text)
	if t == "" {
		return newCommand(ActionHelp, 0)
	}

	low := strings.ToLower(t)
	switch {
	case slices.Contains(HelpWords, low):
		return newCommand(ActionHelp, 1)
	case slices.Contains(ShowWords, low):
		return newCommand(ActionShow, 1)
	case slices.Contains(CancelWords, low):
		return newCommand(ActionCancel, 1)
	case slices.Contains(SendWords, low):
		return newCommand(ActionSend, 1)
	}

	tokens := strings.Fields(t)
	head := strings.ToLower(tokens[0])
	rest := strings.TrimSpace(t[len(tokens[0]):])

	switch {
	case slices.Contains(ManualHeads, head):
		return revise(ModeManual, "")
	case slices.Contains(EditHeads, head):
		return revise(ModeEdit, rest)
	case slices.Contains(RegenerateHeads, head):
		return revise(ModeRegenerate, rest)
	case slices.Contains(ReviseHeads, head):
		return parseRevise(tokens[1:])
	}

	return newCommand(ActionNewEmail, UnsureConfidence, ArgRaw, t)
}

// parseRevise handles "revise <mode> <instruction...>". An unknown mode word
// is treated as the start of an edit instruction.
func parseRevise(args []string) ParsedCommand {
	if len(args) == 0 {
		return revise(ModeEdit, "")
	}

	word := strings.ToLower(args[0])
	instruction := strings.Join(args[1:], " ")

	switch {
	case slices.Contains(ManualModeWords, word):
		return revise(ModeManual, instruction)
	case slices.Contains(EditModeWords, word):
		return revise(ModeEdit, instruction)
	case slices.Contains(RegenerateModeWords, word):
		return revise(ModeRegenerate, instruction)
	default:
		return revise(ModeEdit, strings.Join(args, " "))
	}
}

func revise(mode Mode, instruction string) ParsedCommand {
	return newCommand(ActionRevise, 1,
		ArgMode, string(mode),
		ArgInstruction, strings.TrimSpace(instruction),
	)
}
