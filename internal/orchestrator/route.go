package orchestrator

import (
	"strings"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/command"
)

// EmailKeywords send free text to the email capability when contained in
// the lower-cased input.
var EmailKeywords = []string{
	"邮箱", "邮件", "收件箱", "草稿", "发送", "草拟", "起草",
	"inbox", "email", "mail", "draft", "send",
}

// Route picks the capability for a parsed turn. Session commands always go
// to email; free text goes to email when it names a mail concept or carries
// a drafting argument, else to QA.
func Route(cmd command.ParsedCommand, text string) agent.Kind {
	switch cmd.Action {
	case command.ActionRevise, command.ActionShow, command.ActionSend, command.ActionCancel, command.ActionHelp:
		return agent.KindEmail
	}

	lower := strings.ToLower(text)
	for _, k := range EmailKeywords {
		if strings.Contains(lower, k) {
			return agent.KindEmail
		}
	}
	if agent.HasStructuralMarker(text) {
		return agent.KindEmail
	}
	return agent.KindQA
}
