package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `provider: groq
api_key: gsk_test
model: llama-3.1-8b-instant
profile:
  display_name: Ada
mailbox:
  provider: ses
  ses:
    sender: ada@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 120, cfg.TimeoutSeconds)
	assert.Equal(t, "en", cfg.Profile.DefaultEmailLanguage)
	assert.Equal(t, "Best regards,\nAda", cfg.Profile.SignatureText())
	assert.Equal(t, OverwriteWarn, cfg.Session.OverwritePolicy)
	assert.Equal(t, path, cfg.Path())
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.SetPath(path)
	cfg.Profile.ImportantSenders = []string{"boss@example.com"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"boss@example.com"}, loaded.Profile.ImportantSenders)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"QUILL_PROVIDER":    "anthropic",
		"ANTHROPIC_API_KEY": "sk-ant-123",
		"OPENAI_API_KEY":    "sk-openai",
		"QUILL_MAILBOX":     "gmail",
		"QUILL_EDITOR":      "vim -n",
		"OLLAMA_HOST":       "http://ollama:11434",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant-123", cfg.APIKey)
	assert.Equal(t, "gmail", cfg.Mailbox.Provider)
	assert.Equal(t, []string{"vim", "-n"}, cfg.Editor.Command)
	assert.Empty(t, cfg.BaseURL, "OLLAMA_HOST only applies to the ollama provider")
}

func TestApplyEnvKeepsExplicitKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.APIKey = "from-file"
	cfg.ApplyEnv(func(k string) string {
		if k == "OPENAI_API_KEY" {
			return "from-env"
		}
		return ""
	})
	assert.Equal(t, "from-file", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Provider = "nope" }, "unknown provider"},
		{"missing key", func(c *Config) { c.Provider = "openai" }, "requires an API key"},
		{"custom without url", func(c *Config) { c.Provider = "custom" }, "base_url"},
		{"ses without sender", func(c *Config) { c.Mailbox.Provider = MailboxSES }, "sender"},
		{"bad mailbox", func(c *Config) { c.Mailbox.Provider = "pigeon" }, "unknown mailbox"},
		{"bad policy", func(c *Config) { c.Session.OverwritePolicy = "ask" }, "overwrite_policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMasked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "sk-1234567890abcdef"
	cfg.Mailbox.SES.SecretAccessKey = "short"

	m := cfg.Masked()
	assert.Equal(t, "sk-1...cdef", m.APIKey)
	assert.Equal(t, "****", m.Mailbox.SES.SecretAccessKey)
	assert.Equal(t, "sk-1234567890abcdef", cfg.APIKey, "original untouched")
}

func TestGetProvider(t *testing.T) {
	assert.Equal(t, "GEMINI_API_KEY", GetProvider("gemini").EnvKey)
	assert.Nil(t, GetProvider("custom"))
}
