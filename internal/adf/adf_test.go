package adf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTextJSON(t *testing.T) {
	data, err := json.Marshal(FromText("Started work on branch `ABC-1-x`"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "Started work on branch `+"`ABC-1-x`"+`"}]}
		]
	}`, string(data))
}

func TestWithLinkJSON(t *testing.T) {
	data, err := json.Marshal(WithLink("Status update: Done.", "View PR #7", "https://github.com/acme/w/pull/7"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "Status update: Done."}]},
			{"type": "paragraph", "content": [{
				"type": "text",
				"text": "View PR #7",
				"marks": [{"type": "link", "attrs": {"href": "https://github.com/acme/w/pull/7"}}]
			}]}
		]
	}`, string(data))
}

func TestPlainTextSkipsUnknownNodes(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "paragraph", "content": [
				{"type": "text", "text": "Users cannot"},
				{"type": "hardBreak"},
				{"type": "text", "text": "log in."}
			]},
			{"type": "codeBlock", "content": [{"type": "text", "text": "ignored"}]},
			{"type": "paragraph", "content": [{"type": "mention", "attrs": {"id": "1"}}, {"type": "text", "text": "Fix it."}]}
		]
	}`)

	assert.Equal(t, "Users cannot log in. Fix it.", PlainTextOf(raw))
}

func TestParseRejectsNonDocuments(t *testing.T) {
	for _, raw := range []string{``, `null`, `"plain string"`, `{"type": "paragraph"}`, `[1,2]`} {
		_, ok := Parse(json.RawMessage(raw))
		assert.False(t, ok, raw)
		assert.Empty(t, PlainTextOf(json.RawMessage(raw)))
	}
}

func TestPlainTextEmptyDoc(t *testing.T) {
	assert.Empty(t, New().PlainText())
}
