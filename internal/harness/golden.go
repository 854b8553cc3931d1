package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the graph dump against a
// golden file at testdata/golden/{scenario.Name}.golden, in addition to
// the scenario's own expectations.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The dump is deterministic for a fixed dataset and option set, so the
// golden file pins the full topology: any drift in elision, edge order,
// or goal selection fails the comparison even without a dedicated
// assertion.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.Graph.Dump()))

	return result, nil
}
