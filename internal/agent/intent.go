package agent

import (
	"regexp"
	"strings"
)

// Word lists are matched by case-insensitive substring containment, in the
// order given. They are data so callers and tests can enumerate them.
var (
	DraftingWords = []string{
		"draft", "compose", "write an email", "write email",
		"草拟", "起草", "写邮件", "写一封", "发邮件",
	}

	StructuralMarkers = []string{"to=", "subject=", "content=", "内容="}

	// ActionWords only count towards drafting intent next to an address.
	ActionWords = []string{
		"send", "write", "email", "contact", "reach out", "reply",
		"写", "发", "联系", "回复",
	}

	SummaryWords = []string{
		"总结", "收件箱", "最近", "最新",
		"inbox", "summarize", "summary", "recent", "latest", "unread",
	}
)

var (
	addressRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	equalsRe  = regexp.MustCompile(`\s*=\s*`)
)

// ExtractAddress returns the first email address in text, or "".
func ExtractAddress(text string) string {
	return addressRe.FindString(text)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return equalsRe.ReplaceAllString(strings.ToLower(text), "=")
}

// HasStructuralMarker reports whether text carries any key=value drafting
// argument.
func HasStructuralMarker(text string) bool {
	return containsAny(normalize(text), StructuralMarkers)
}

// WantsDraft is the drafting-intent heuristic: drafting words, a structural
// marker, or an address together with an action word.
func WantsDraft(text string) bool {
	t := normalize(text)
	switch {
	case containsAny(t, DraftingWords):
		return true
	case containsAny(t, StructuralMarkers):
		return true
	case ExtractAddress(text) != "" && containsAny(t, ActionWords):
		return true
	}
	return false
}

// WantsSummary reports an inbox summary request. Drafting intent takes
// precedence so "draft a reply about the latest invoice" and "email
// bob@example.com about the latest schedule" still draft.
func WantsSummary(text string) bool {
	if WantsDraft(text) {
		return false
	}
	return containsAny(normalize(text), SummaryWords)
}
