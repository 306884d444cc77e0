package mailbox

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRaw(t *testing.T) {
	raw, err := BuildRaw("me@example.com", Message{
		To:      "bob@example.com",
		Subject: "会议改期",
		Body:    "Hi Bob,\nCan we move to Friday? Café at 3.\n\nBest regards,\nMe",
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", msg.Header.Get("From"))
	assert.Equal(t, "bob@example.com", msg.Header.Get("To"))

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "会议改期", subject)

	body, err := io.ReadAll(quotedprintable.NewReader(msg.Body))
	require.NoError(t, err)
	assert.Equal(t, "Hi Bob,\r\nCan we move to Friday? Café at 3.\r\n\r\nBest regards,\r\nMe", string(body))
}

func TestBuildRawWithoutFrom(t *testing.T) {
	raw, err := BuildRaw("", Message{To: "a@b.co", Subject: "plain", Body: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "From:")
	assert.Contains(t, string(raw), "Subject: plain\r\n")
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("gmail", "send", nil))

	base := errors.New("quota")
	err := Wrap("gmail", "send", base)
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "send", perr.Op)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "gmail send: quota", err.Error())
}
