package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the satchel CLI against isolated config and data
// directories and returns the combined output.
func runCommand(t *testing.T, configDir, dataDir string, args ...string) (string, error) {
	t.Helper()
	flags = rootFlags{}

	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--config-dir", configDir, "--data-dir", dataDir))

	err := root.Execute()
	return buf.String(), err
}

func TestInitCommand(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	out, err := runCommand(t, configDir, dataDir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	_, err = os.Stat(filepath.Join(configDir, "config.yaml"))
	assert.NoError(t, err, "init must write config.yaml")
	_, err = os.Stat(filepath.Join(dataDir, "satchel.db"))
	assert.NoError(t, err, "init must create the database")
}

func TestAddShowRemoveRoundTrip(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	_, err := runCommand(t, configDir, dataDir, "init")
	require.NoError(t, err)

	out, err := runCommand(t, configDir, dataDir, "add", "post-1", "comments", `"hello"`)
	require.NoError(t, err)
	assert.Contains(t, out, "Added element 0")

	out, err = runCommand(t, configDir, dataDir, "add", "post-1", "comments", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Added element 1")

	out, err = runCommand(t, configDir, dataDir, "show", "post-1", "comments")
	require.NoError(t, err)
	assert.Contains(t, out, "0: \"hello\"")
	assert.Contains(t, out, "1: 42")

	out, err = runCommand(t, configDir, dataDir, "list", "post-1")
	require.NoError(t, err)
	assert.Contains(t, out, "comments")

	_, err = runCommand(t, configDir, dataDir, "remove", "post-1", "comments", "0")
	require.NoError(t, err)

	out, err = runCommand(t, configDir, dataDir, "show", "post-1", "comments")
	require.NoError(t, err)
	assert.NotContains(t, out, "hello")
	assert.Contains(t, out, "1: 42", "the remaining element keeps its key")
}

func TestShowJSONOutput(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	_, err := runCommand(t, configDir, dataDir, "add", "post-2", "tags", "null")
	require.NoError(t, err)

	out, err := runCommand(t, configDir, dataDir, "show", "post-2", "tags", "--json")
	require.NoError(t, err)

	var doc shownCollection
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "post-2", doc.OwnerID)
	assert.Equal(t, "tags", doc.Association)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, 0, doc.Elements[0].Key)
	assert.Nil(t, doc.Elements[0].Value, "stored null survives the round trip")
}

func TestRemoveMissingKeyFails(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	_, err := runCommand(t, configDir, dataDir, "add", "post-3", "tags", `"a"`)
	require.NoError(t, err)

	_, err = runCommand(t, configDir, dataDir, "remove", "post-3", "tags", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no element with key 9")

	_, err = runCommand(t, configDir, dataDir, "remove", "post-3", "tags", "not-a-key")
	require.Error(t, err)
}

func TestExportImportCommands(t *testing.T) {
	configDir := t.TempDir()
	dataDir := t.TempDir()

	_, err := runCommand(t, configDir, dataDir, "add", "post-4", "tags", `"keep"`)
	require.NoError(t, err)

	dump := filepath.Join(t.TempDir(), "dump.jsonl")
	_, err = runCommand(t, configDir, dataDir, "export", dump)
	require.NoError(t, err)

	freshData := t.TempDir()
	_, err = runCommand(t, configDir, freshData, "import", dump)
	require.NoError(t, err)

	out, err := runCommand(t, configDir, freshData, "show", "post-4", "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "\"keep\"")
}

func TestVersionCommand(t *testing.T) {
	flags = rootFlags{}
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "satchel v")
	assert.Contains(t, buf.String(), modulePath)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want any
	}{
		{"number", "42", float64(42)},
		{"boolean", "true", true},
		{"null", "null", nil},
		{"quoted string", `"text"`, "text"},
		{"object", `{"k":1}`, map[string]any{"k": float64(1)}},
		{"plain string fallback", "not json", "not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.arg))
		})
	}
}
