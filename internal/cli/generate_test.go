package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "--format", "json", "generate", "--db", db, "--ending", "2")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	require.Equal(t, "e_goal_c", data["goal_event"])

	token, err := uuid.Parse(data["token"].(string))
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), token.Version())

	// The run shows up in the history listing.
	listOut, _, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	require.Contains(t, listOut, data["token"].(string))
	require.Contains(t, listOut, "goal=e_goal_c")
}

func TestGenerateRecordsDiagnostics(t *testing.T) {
	dir := writeDataset(t, `package baddata

logic: {
	root:  "Menu"
	start: "hub[1]"
	events: []
	rules: [{parent: "hub[1]", target: "chest[2]", rule: "Key + Excalibur"}]
}
items: [{name: "Key", class: "progression"}]
locations: ["chest[2]"]
`)
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "--format", "json", "generate", "--db", db, "--dataset", dir)
	require.NoError(t, err, "generation is lenient and logs bad rule parts")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	require.Equal(t, float64(1), data["diagnostics"])

	// The count is persisted with the run.
	listOut, _, err := execute(t, "--format", "json", "runs", "--db", db)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(listOut), &resp))
	records := resp.Data.([]any)
	require.Len(t, records, 1)
	require.Equal(t, float64(1), records[0].(map[string]any)["diagnostics"])
}

func TestGenerateDistinctTokens(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	for i := 0; i < 3; i++ {
		_, _, err := execute(t, "generate", "--db", db)
		require.NoError(t, err)
	}

	out, _, err := execute(t, "--format", "json", "runs", "--db", db)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	records := resp.Data.([]any)
	require.Len(t, records, 3)

	seen := map[string]bool{}
	for _, rec := range records {
		token := rec.(map[string]any)["token"].(string)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestRunsMissingDatabase(t *testing.T) {
	_, _, err := execute(t, "runs", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunsSingleToken(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "--format", "json", "generate", "--db", db)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	token := resp.Data.(map[string]any)["token"].(string)

	single, _, err := execute(t, "runs", "--db", db, "--token", token)
	require.NoError(t, err)
	require.Contains(t, single, token)

	_, _, err = execute(t, "runs", "--db", db, "--token", "missing")
	require.Error(t, err)
}
