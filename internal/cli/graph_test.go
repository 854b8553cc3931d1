package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphDump(t *testing.T) {
	out, _, err := execute(t, "graph")
	require.NoError(t, err)
	require.Contains(t, out, "root: Menu")
	require.Contains(t, out, "goal: e_goal_e")
	require.Contains(t, out, "region: rm_start_0[100390]")
	require.Contains(t, out, "fingerprint: ")
}

func TestGraphDeterministic(t *testing.T) {
	first, _, err := execute(t, "graph")
	require.NoError(t, err)
	second, _, err := execute(t, "graph")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGraphEndingChangesFingerprint(t *testing.T) {
	var fingerprints [2]string
	var goals [2]string
	for i, ending := range []string{"0", "3"} {
		out, _, err := execute(t, "--format", "json", "graph", "--ending", ending)
		require.NoError(t, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		data := resp.Data.(map[string]any)
		fingerprints[i] = data["fingerprint"].(string)
		goals[i] = data["goal_event"].(string)
	}

	require.Equal(t, "e_goal_a", goals[0])
	require.Equal(t, "e_goal_d", goals[1])
	// The goal is part of the graph identity, so the fingerprint moves
	// with the ending.
	require.NotEqual(t, fingerprints[0], fingerprints[1])
}

func TestGraphOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	out, _, err := execute(t, "graph", "--output", path)
	require.NoError(t, err)

	// The dump goes to the file, not stdout; the fingerprint still prints.
	require.NotContains(t, out, "root: Menu")
	require.Contains(t, out, "fingerprint: ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "root: Menu")
}

func TestGraphSlotData(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "graph", "--slot", "--ending", "2")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	slot := data["slot_data"].(map[string]any)
	require.Equal(t, float64(2), slot["ending"])
	require.Equal(t, false, slot["hard_maya"])
	require.Len(t, slot, 10)
}
