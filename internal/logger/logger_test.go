package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/demanddiff/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input).String())
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"json stderr", &config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}, false},
		{"text stdout", &config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"}, false},
		{"file output", &config.LoggingConfig{Level: "warn", Format: "json", Output: filepath.Join(dir, "log.json")}, false},
		{"unwritable file", &config.LoggingConfig{Output: filepath.Join(dir, "missing", "log.json")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestNewDefaultAndNop(t *testing.T) {
	require.NotNil(t, NewDefault())

	nop := NewNop()
	require.NotNil(t, nop)
	nop.WithJob("ignored").Info("discarded")
	assert.NoError(t, nop.Sync())
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	log.WithJob("ferc_vs_eia").
		WithRun("run-1").
		WithTable("ferc714").
		WithStore("mysql").
		WithFields(map[string]interface{}{"rows": 42}).
		Info("loaded table")
	require.NoError(t, log.Sync())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "loaded table", entry["msg"])
	assert.Equal(t, "ferc_vs_eia", entry["job"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "ferc714", entry["table"])
	assert.Equal(t, "mysql", entry["store"])
	assert.Equal(t, float64(42), entry["rows"])
}

func TestWithReturnsNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.LoggingConfig{Format: "json"}, &buf)

	jobLog := log.WithJob("job")
	assert.NotSame(t, log, jobLog)

	log.Info("plain")
	require.NoError(t, log.Sync())
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	_, hasJob := entries[0]["job"]
	assert.False(t, hasJob, "parent logger must not carry child context")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("dropped")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestBuildEncoder(t *testing.T) {
	assert.NotNil(t, buildEncoder("json"))
	assert.NotNil(t, buildEncoder("text"))
	assert.NotNil(t, buildEncoder("unknown"))
}

func TestLoggingToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demanddiff.log")

	log, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("test info message")
	log.WithJob("test-job").Warn("message with job context")
	_ = log.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test info message")
	assert.Contains(t, string(content), "test-job")
}
