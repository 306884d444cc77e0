package command

import (
	"regexp"
	"strings"
	"sync"
)

// Keys recognised in key=value drafting arguments
const (
	KeyTo        = "to"
	KeySubject   = "subject"
	KeyContent   = "content"
	KeyContentZH = "内容"
)

var (
	kvPatternsMu sync.Mutex
	kvPatterns   = map[string]*regexp.Regexp{}
)

func kvPattern(key string) *regexp.Regexp {
	kvPatternsMu.Lock()
	defer kvPatternsMu.Unlock()

	if re, ok := kvPatterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `\s*=\s*("[^"]*"|\S+)`)
	kvPatterns[key] = re
	return re
}

// ExtractKV returns the value of key=value in text. Values may be bare
// (up to the next whitespace) or double quoted. Missing keys yield "".
func ExtractKV(text, key string) string {
	m := kvPattern(key).FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	val := strings.TrimSpace(m[1])
	if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
		return val[1 : len(val)-1]
	}
	return val
}

// DraftArgs are the drafting arguments a user may supply inline with any command
type DraftArgs struct {
	To      string
	Subject string
	Content string
}

// Structured reports whether both recipient and subject were given.
func (a DraftArgs) Structured() bool {
	return a.To != "" && a.Subject != ""
}

// ExtractDraftArgs pulls to=, subject= and content=/内容= out of text.
func ExtractDraftArgs(text string) DraftArgs {
	content := ExtractKV(text, KeyContentZH)
	if content == "" {
		content = ExtractKV(text, KeyContent)
	}
	return DraftArgs{
		To:      ExtractKV(text, KeyTo),
		Subject: ExtractKV(text, KeySubject),
		Content: content,
	}
}
