package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"plain", `{"to":"a@b.co"}`, `{"to":"a@b.co"}`, true},
		{"fenced", "```json\n{\"to\":\"\"}\n```", `{"to":""}`, true},
		{"prose around", "Sure! Here it is: {\"subject\":\"Hi\"} Hope that helps.", `{"subject":"Hi"}`, true},
		{"no object", "I cannot help with that.", "", false},
		{"reversed braces", "} oops {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
	}
	require.NoError(t, DecodeJSON("```\n{\"to\":\"x@y.io\",\"subject\":\"S\"}\n```", &v))
	assert.Equal(t, "x@y.io", v.To)
	assert.Equal(t, "S", v.Subject)

	assert.Error(t, DecodeJSON("nothing here", &v))
	assert.Error(t, DecodeJSON("{not json}", &v))
}
