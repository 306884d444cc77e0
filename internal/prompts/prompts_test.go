package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplates(t *testing.T) {
	lib := MustLoadBuiltin()
	assert.Equal(t, []string{DraftBody, DraftJSON, EditBody, QA, RegenerateBody, SummarizeInbox}, lib.Names())

	data := Data{
		Name:        "Ada",
		Signature:   "Best regards,\nAda",
		Language:    "en",
		Marker:      "[NEEDS USER INPUT: recipient email]",
		To:          "bob@example.com",
		Subject:     "Hi",
		Body:        "Hello Bob",
		Instruction: "shorter",
	}
	for _, name := range lib.Names() {
		t.Run(name, func(t *testing.T) {
			p, err := lib.Get(name)
			require.NoError(t, err)
			assert.NotEmpty(t, p.Description)
			assert.Contains(t, []string{"system", "user"}, p.Role)
			out, err := p.Render(data)
			require.NoError(t, err)
			assert.NotContains(t, out, "{{")
		})
	}
}

func TestDraftJSONMentionsMarkerAndSignature(t *testing.T) {
	p, err := MustLoadBuiltin().Get(DraftJSON)
	require.NoError(t, err)
	out, err := p.Render(Data{Name: "Ada", Signature: "Cheers,\nAda", Language: "zh", Marker: "[NEEDS USER INPUT: recipient email]"})
	require.NoError(t, err)
	assert.Contains(t, out, "[NEEDS USER INPUT: recipient email]")
	assert.Contains(t, out, "Cheers,\nAda")
	assert.Contains(t, out, "Default language: zh")
}

func TestParseFrontMatter(t *testing.T) {
	p, err := Parse("x", []byte("---\nname: custom\ndescription: d\ntemperature: 0.9\nmax_tokens: 200\n---\nHello {{.Name}}\n"))
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, "system", p.Role)
	require.NotNil(t, p.Temperature)
	assert.Equal(t, 0.9, *p.Temperature)
	assert.Equal(t, 200, p.MaxTokens)

	out, err := p.Render(Data{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", out)
}

func TestParseWithoutFrontMatter(t *testing.T) {
	p, err := Parse("plain", []byte("Just text"))
	require.NoError(t, err)
	assert.Equal(t, "plain", p.Name)
	assert.Nil(t, p.Temperature)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad", []byte("---\nname: x\nno end"))
	assert.Error(t, err)

	_, err = Parse("bad", []byte("{{.Unclosed"))
	assert.Error(t, err)
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.md"), []byte("---\ndescription: terse\n---\nAnswer in one sentence."), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))

	lib, err := Load(dir)
	require.NoError(t, err)

	p, err := lib.Get(QA)
	require.NoError(t, err)
	assert.Equal(t, "Answer in one sentence.", p.Body)
	assert.Equal(t, filepath.Join(dir, "qa.md"), p.Source)
	assert.Len(t, lib.Names(), 6)

	_, err = Load(filepath.Join(dir, "missing"))
	assert.NoError(t, err)

	_, err = lib.Get("nope")
	assert.Error(t, err)
}
