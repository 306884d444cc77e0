// Package prompts holds the prompt templates sent to the language model.
//
// Templates are markdown files with YAML front matter. The built-in set is
// embedded; a file with the same name in the user's prompt directory
// replaces the built-in one.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.md
var builtin embed.FS

const (
	QA             = "qa"
	SummarizeInbox = "summarize_inbox"
	DraftBody      = "draft_body"
	DraftJSON      = "draft_json"
	EditBody       = "edit_body"
	RegenerateBody = "regenerate_body"
)

// Meta is the front matter of a template.
type Meta struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Role        string   `yaml:"role"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	Source      string   `yaml:"-"`
}

type Prompt struct {
	Meta
	Body string
	tmpl *template.Template
}

// Data is what templates can reference.
type Data struct {
	Name        string
	Signature   string
	Language    string
	Marker      string
	To          string
	Subject     string
	Body        string
	Instruction string
}

// Parse splits front matter from the body and compiles the body.
func Parse(name string, content []byte) (*Prompt, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	var meta Meta
	body := text
	if strings.HasPrefix(text, "---\n") {
		parts := strings.SplitN(text[len("---\n"):], "\n---", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("prompt %s: unterminated front matter", name)
		}
		if err := yaml.Unmarshal([]byte(parts[0]), &meta); err != nil {
			return nil, fmt.Errorf("prompt %s: front matter: %w", name, err)
		}
		body = parts[1]
	}
	body = strings.TrimSpace(body)

	if meta.Name == "" {
		meta.Name = name
	}
	if meta.Role == "" {
		meta.Role = "system"
	}

	tmpl, err := template.New(meta.Name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}

	return &Prompt{Meta: meta, Body: body, tmpl: tmpl}, nil
}

func (p *Prompt) Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.Name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Library is the resolved set of templates.
type Library struct {
	prompts map[string]*Prompt
}

// Load reads the embedded templates and applies overrides from dir. A
// missing dir is not an error.
func Load(dir string) (*Library, error) {
	lib := &Library{prompts: map[string]*Prompt{}}

	entries, err := fs.ReadDir(builtin, "templates")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := builtin.ReadFile("templates/" + e.Name())
		if err != nil {
			return nil, err
		}
		if err := lib.add(e.Name(), data, "builtin"); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return lib, nil
	}

	overrides, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lib, nil
		}
		return nil, err
	}
	for _, e := range overrides {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := lib.add(e.Name(), data, path); err != nil {
			return nil, err
		}
	}

	return lib, nil
}

// MustLoadBuiltin returns the embedded templates only.
func MustLoadBuiltin() *Library {
	lib, err := Load("")
	if err != nil {
		panic(err)
	}
	return lib
}

func (l *Library) add(file string, data []byte, source string) error {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	p, err := Parse(name, data)
	if err != nil {
		return err
	}
	// The file name is the lookup key even if front matter says otherwise.
	p.Name = name
	p.Source = source
	l.prompts[name] = p
	return nil
}

func (l *Library) Get(name string) (*Prompt, error) {
	p, ok := l.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
	return p, nil
}

func (l *Library) Names() []string {
	names := make([]string, 0, len(l.prompts))
	for n := range l.prompts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
