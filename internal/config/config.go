package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider       string  `yaml:"provider"`
	APIKey         string  `yaml:"api_key,omitempty"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url,omitempty"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`

	Profile ProfileConfig `yaml:"profile"`
	Mailbox MailboxConfig `yaml:"mailbox"`
	Editor  EditorConfig  `yaml:"editor,omitempty"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`

	path string
}

// ProfileConfig describes the user the assistant writes on behalf of.
type ProfileConfig struct {
	DisplayName          string   `yaml:"display_name"`
	Email                string   `yaml:"email,omitempty"`
	Signature            string   `yaml:"signature,omitempty"`
	DefaultEmailLanguage string   `yaml:"default_email_language"`
	ImportantSenders     []string `yaml:"important_senders,omitempty"`
	ImportantKeywords    []string `yaml:"important_keywords,omitempty"`
}

type MailboxConfig struct {
	Provider  string      `yaml:"provider"`
	StorePath string      `yaml:"store_path,omitempty"`
	Gmail     GmailConfig `yaml:"gmail,omitempty"`
	SES       SESConfig   `yaml:"ses,omitempty"`
}

type GmailConfig struct {
	CredentialsPath string `yaml:"credentials_path,omitempty"`
	TokenPath       string `yaml:"token_path,omitempty"`
}

type SESConfig struct {
	Region          string `yaml:"region,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	Sender          string `yaml:"sender,omitempty"`
}

type EditorConfig struct {
	Command []string `yaml:"command,omitempty"`
}

type SessionConfig struct {
	OverwritePolicy string `yaml:"overwrite_policy"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

const (
	MailboxGmail  = "gmail"
	MailboxSES    = "ses"
	MailboxStdout = "stdout"

	OverwriteWarn    = "warn"
	OverwriteDiscard = "discard"
)

func DefaultConfig() *Config {
	return &Config{
		Provider:       "ollama",
		Model:          "llama3.1:8b",
		Temperature:    0.3,
		TimeoutSeconds: 120,
		Profile: ProfileConfig{
			DisplayName:          "Me",
			DefaultEmailLanguage: "en",
		},
		Mailbox: MailboxConfig{
			Provider: MailboxStdout,
		},
		Session: SessionConfig{OverwritePolicy: OverwriteWarn},
		Logging: LoggingConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quill"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the config at path, or the default location when path is
// empty. A missing file yields (nil, nil) so callers can run first-time setup.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.path = path
	cfg.fillDefaults()

	return cfg, nil
}

// Path is the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	p, _ := ConfigPath()
	return p
}

func (c *Config) SetPath(path string) {
	c.path = path
}

func (c *Config) Save() error {
	path := c.Path()
	if path == "" {
		return errors.New("no config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.Profile.DisplayName == "" {
		c.Profile.DisplayName = d.Profile.DisplayName
	}
	if c.Profile.DefaultEmailLanguage == "" {
		c.Profile.DefaultEmailLanguage = d.Profile.DefaultEmailLanguage
	}
	if c.Mailbox.Provider == "" {
		c.Mailbox.Provider = d.Mailbox.Provider
	}
	if c.Session.OverwritePolicy == "" {
		c.Session.OverwritePolicy = d.Session.OverwritePolicy
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// ApplyEnv overlays environment variables on top of the file values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "QUILL_PROVIDER")
	set(&c.Model, "QUILL_MODEL")
	set(&c.APIKey, "QUILL_API_KEY")
	set(&c.BaseURL, "QUILL_BASE_URL")
	if c.Provider == "ollama" {
		set(&c.BaseURL, "OLLAMA_HOST")
	}

	if c.APIKey == "" {
		if info := GetProvider(c.Provider); info != nil && info.EnvKey != "" {
			set(&c.APIKey, info.EnvKey)
		}
	}

	set(&c.Mailbox.Provider, "QUILL_MAILBOX")
	set(&c.Mailbox.SES.Region, "SES_REGION")
	set(&c.Mailbox.SES.Sender, "SES_SENDER")
	set(&c.Logging.Level, "QUILL_LOG_LEVEL")

	if v := strings.TrimSpace(getenv("QUILL_EDITOR")); v != "" {
		c.Editor.Command = strings.Fields(v)
	}
}

func (c *Config) Validate() error {
	info := GetProvider(c.Provider)
	switch {
	case c.Provider == "custom":
		if c.BaseURL == "" {
			return fmt.Errorf("custom provider requires base_url")
		}
	case info == nil:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	case info.NeedsAPIKey && c.APIKey == "":
		return fmt.Errorf("%s requires an API key (set api_key or %s)", c.Provider, info.EnvKey)
	}

	switch c.Mailbox.Provider {
	case MailboxGmail, MailboxStdout:
	case MailboxSES:
		if c.Mailbox.SES.Sender == "" {
			return fmt.Errorf("ses mailbox requires mailbox.ses.sender")
		}
	default:
		return fmt.Errorf("unknown mailbox provider: %s", c.Mailbox.Provider)
	}

	switch c.Session.OverwritePolicy {
	case OverwriteWarn, OverwriteDiscard:
	default:
		return fmt.Errorf("unknown session.overwrite_policy: %s", c.Session.OverwritePolicy)
	}

	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SignatureText returns the configured sign-off or one built from the display name.
func (p ProfileConfig) SignatureText() string {
	if strings.TrimSpace(p.Signature) != "" {
		return p.Signature
	}
	return "Best regards,\n" + p.DisplayName
}

// StorePath resolves the local mailbox database location.
func (c *Config) StorePath() (string, error) {
	if c.Mailbox.StorePath != "" {
		return ExpandPath(c.Mailbox.StorePath)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mailbox.db"), nil
}

func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return ExpandPath(c.Logging.File)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quill.log"), nil
}

// ExpandPath resolves a leading ~/ against the home directory.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return p, nil
}

// Masked returns a copy with secrets blanked out for display.
func (c *Config) Masked() *Config {
	out := *c
	out.APIKey = mask(c.APIKey)
	out.Mailbox.SES.AccessKeyID = mask(c.Mailbox.SES.AccessKeyID)
	out.Mailbox.SES.SecretAccessKey = mask(c.Mailbox.SES.SecretAccessKey)
	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// GmailPaths resolves the OAuth client credentials and cached token files.
func (c *Config) GmailPaths() (credentials, token string, err error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", "", err
	}
	credentials = filepath.Join(dir, "gmail_credentials.json")
	token = filepath.Join(dir, "gmail_token.json")
	if c.Mailbox.Gmail.CredentialsPath != "" {
		if credentials, err = ExpandPath(c.Mailbox.Gmail.CredentialsPath); err != nil {
			return "", "", err
		}
	}
	if c.Mailbox.Gmail.TokenPath != "" {
		if token, err = ExpandPath(c.Mailbox.Gmail.TokenPath); err != nil {
			return "", "", err
		}
	}
	return credentials, token, nil
}
