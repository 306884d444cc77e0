package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/sant0-9/quill/internal/mailbox"
)

type fakeGmail struct {
	t        *testing.T
	listURL  string
	drafts   map[string]string
	sentID   string
	failSend bool
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me")
	switch {
	case r.Method == http.MethodGet && path == "/messages":
		f.listURL = r.URL.RawQuery
		json.NewEncoder(w).Encode(gmail.ListMessagesResponse{Messages: []*gmail.Message{{Id: "m1", ThreadId: "t1"}, {Id: "m2"}}})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/messages/"):
		id := strings.TrimPrefix(path, "/messages/")
		json.NewEncoder(w).Encode(gmail.Message{
			Id:       id,
			ThreadId: "t-" + id,
			Snippet:  "snippet " + id,
			Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "prof@uni.edu"},
				{Name: "Subject", Value: "Quiz " + id},
				{Name: "Date", Value: "Mon, 9 Mar 2026 10:00:00 +0000"},
			}},
		})

	case r.Method == http.MethodPost && path == "/drafts":
		var d gmail.Draft
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&d))
		f.drafts["d1"] = decodeRaw(f.t, d.Message.Raw)
		json.NewEncoder(w).Encode(gmail.Draft{Id: "d1"})

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/drafts/"):
		var d gmail.Draft
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&d))
		f.drafts[strings.TrimPrefix(path, "/drafts/")] = decodeRaw(f.t, d.Message.Raw)
		json.NewEncoder(w).Encode(d)

	case r.Method == http.MethodPost && path == "/drafts/send":
		if f.failSend {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"insufficient scope"}}`))
			return
		}
		var d gmail.Draft
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&d))
		f.sentID = d.Id
		json.NewEncoder(w).Encode(gmail.Message{Id: "sent-1"})

	default:
		http.NotFound(w, r)
	}
}

func decodeRaw(t *testing.T, raw string) string {
	b, err := base64.URLEncoding.DecodeString(raw)
	assert.NoError(t, err)
	return string(b)
}

func newTestProvider(t *testing.T) (*Provider, *fakeGmail) {
	t.Helper()
	fake := &fakeGmail{t: t, drafts: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p, err := New(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return p, fake
}

func TestListRecent(t *testing.T) {
	p, fake := newTestProvider(t)

	headers, err := p.ListRecent(context.Background(), mailbox.ListOptions{Limit: 10, Days: 7, Query: "is:unread"})
	require.NoError(t, err)
	require.Len(t, headers, 2)

	assert.Equal(t, mailbox.Header{
		ID:       "m1",
		ThreadID: "t-m1",
		From:     "prof@uni.edu",
		Subject:  "Quiz m1",
		Date:     "Mon, 9 Mar 2026 10:00:00 +0000",
		Snippet:  "snippet m1",
	}, headers[0])

	assert.Contains(t, fake.listURL, "labelIds=INBOX")
	assert.Contains(t, fake.listURL, "maxResults=10")
	assert.Contains(t, fake.listURL, "q=newer_than%3A7d+is%3Aunread")
}

func TestDraftRoundTrip(t *testing.T) {
	p, fake := newTestProvider(t)
	ctx := context.Background()

	id, err := p.CreateDraft(ctx, mailbox.Message{To: "bob@example.com", Subject: "Hi", Body: "first"})
	require.NoError(t, err)
	assert.Equal(t, "d1", id)
	assert.Contains(t, fake.drafts["d1"], "To: bob@example.com")

	require.NoError(t, p.UpdateDraft(ctx, id, mailbox.Message{To: "bob@example.com", Subject: "Hi", Body: "second"}))
	assert.Contains(t, fake.drafts["d1"], "second")

	messageID, err := p.SendDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sent-1", messageID)
	assert.Equal(t, "d1", fake.sentID)
}

func TestSendFailureIsProviderError(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.failSend = true

	_, err := p.SendDraft(context.Background(), "d1")
	require.Error(t, err)
	var perr *mailbox.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "gmail", perr.Provider)
	assert.Equal(t, "send draft", perr.Op)
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "newer_than:3d", Query(mailbox.ListOptions{Days: 3}))
	assert.Equal(t, "from:boss", Query(mailbox.ListOptions{Query: " from:boss "}))
	assert.Empty(t, Query(mailbox.ListOptions{}))
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tok", "token.json")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, saveToken(path, tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := loadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
	assert.True(t, tok.Expiry.Equal(got.Expiry))
}

func TestAuthorizeMissingCredentials(t *testing.T) {
	_, err := Authorize(context.Background(), filepath.Join(t.TempDir(), "none.json"), "", bytes.NewReader(nil), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read gmail credentials")
}
