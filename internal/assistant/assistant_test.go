package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/quill/internal/config"
)

func fakeOllama(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama3.1:8b",
			"message": map[string]string{"role": "assistant", "content": reply},
			"done":    true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Profile.Email = "ada@example.com"
	cfg.Mailbox.StorePath = filepath.Join(t.TempDir(), "mailbox.db")
	return cfg
}

func TestBuildStdoutMailboxEndToEnd(t *testing.T) {
	srv := fakeOllama(t, "Hi Alice,\n\nSee you Friday.\n\nBest regards,\nMe")
	var outbox bytes.Buffer

	a, err := Build(context.Background(), Options{Config: testConfig(t, srv.URL), Outbox: &outbox})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "ollama", a.Provider.Name())
	assert.Equal(t, "local/stdout", a.Mailbox.Name())

	res, err := a.Handle(context.Background(), `to=alice@x.com subject="Friday" content="confirm friday"`)
	require.NoError(t, err)
	assert.Contains(t, res.Content, "See you Friday.")
	require.NotNil(t, a.Session().Pending())

	res, err = a.Handle(context.Background(), "CONFIRM SEND")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Sent!")

	assert.Contains(t, outbox.String(), "To: alice@x.com")
	assert.Contains(t, outbox.String(), "From: ada@example.com")
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Provider = "groq"

	_, err := Build(context.Background(), Options{Config: cfg})
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	p := Profile(config.ProfileConfig{DisplayName: "Ada", DefaultEmailLanguage: "zh", ImportantSenders: []string{"boss@x.com"}})

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Best regards,\nAda", p.Signature)
	assert.Equal(t, "zh", p.Language)
	assert.Equal(t, []string{"boss@x.com"}, p.ImportantSenders)
}
