package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Setup(&buf, level)
	t.Cleanup(func() { Setup(os.Stderr, LevelWarn) })
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLoggerWritesComponentAndExtra(t *testing.T) {
	buf := capture(t, LevelDebug)

	New("jira").Info("issue_fetched", map[string]interface{}{"key": "ABC-1"})

	recs := decodeLines(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "issue_fetched", recs[0]["msg"])
	assert.Equal(t, "jira", recs[0]["component"])
	assert.Equal(t, "ABC-1", recs[0]["key"])
	assert.Equal(t, "INFO", recs[0]["level"])
}

func TestLoggerDefaultLevelHidesDebug(t *testing.T) {
	buf := capture(t, LevelWarn)

	l := New("github")
	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	l.Warn("shown", nil, errors.New("boom"))

	recs := decodeLines(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "shown", recs[0]["msg"])
	assert.Equal(t, "boom", recs[0]["error"])
}

func TestLoggerCarriesRequestID(t *testing.T) {
	buf := capture(t, LevelDebug)

	ctx := WithRequestID(context.Background(), "req-1")
	New("git").WithContext(ctx).Failed("push_failed", time.Now().Add(-time.Second), nil, errors.New("rejected"))

	recs := decodeLines(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "req-1", recs[0]["request_id"])
	assert.Equal(t, "rejected", recs[0]["error"])
	assert.GreaterOrEqual(t, recs[0]["duration_ms"], float64(1000))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelInfo, ParseLevel(" info "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel(""))
	assert.Equal(t, LevelWarn, ParseLevel("verbose"))
}
