package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON object in model output")

// ExtractJSON pulls the JSON object out of a model reply that may wrap it in
// a markdown fence or surrounding prose.
func ExtractJSON(text string) (string, bool) {
	content := strings.TrimSpace(text)

	// Handle markdown-wrapped JSON
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		var jsonLines []string
		in := false
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				in = !in
				continue
			}
			if in {
				jsonLines = append(jsonLines, line)
			}
		}
		content = strings.TrimSpace(strings.Join(jsonLines, "\n"))
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// DecodeJSON extracts and unmarshals the JSON object in text into v.
func DecodeJSON(text string, v any) error {
	obj, ok := ExtractJSON(text)
	if !ok {
		return errNoJSON
	}
	return json.Unmarshal([]byte(obj), v)
}
