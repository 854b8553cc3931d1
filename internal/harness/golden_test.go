package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiniScenarioGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mini.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	require.True(t, result.OK(), "failures: %v", result.Failures)
}

// Building the same scenario twice must dump identically; the golden
// comparison is only meaningful if the dump is stable.
func TestDumpStable(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mini.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	require.Equal(t, first.Graph.Dump(), second.Graph.Dump())
}
