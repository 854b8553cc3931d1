package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
}

// ScenarioResult is the JSON payload for one executed scenario.
type ScenarioResult struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios from a directory",
		Long: `Run every YAML scenario in a directory against its dataset and
report rule checks and graph assertions that did not hold.

Exit code 1 means one or more scenarios failed; exit code 2 means a
scenario could not be run at all.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	return cmd
}

func runTest(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := findScenarioFiles(dir)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scanning scenarios", err)
	}
	if len(paths) == 0 {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("no scenario files found in %s", dir), nil)
		return NewExitError(ExitCommandError, "no scenario files found")
	}
	formatter.VerboseLog("Found %d scenario(s) in %s", len(paths), dir)

	var (
		results   []ScenarioResult
		anyFailed bool
		anyBroken bool
	)
	for _, path := range paths {
		result := executeScenario(path)
		results = append(results, result)
		if result.Error != "" {
			anyBroken = true
		} else if !result.Passed {
			anyFailed = true
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		printScenarioResults(formatter, results)
	}

	if anyBroken {
		return NewExitError(ExitCommandError, "one or more scenarios could not run")
	}
	if anyFailed {
		return NewExitError(ExitFailure, "one or more scenarios failed")
	}
	return nil
}

// executeScenario loads and runs one scenario file. Load and run errors
// are recorded on the result rather than aborting the whole batch.
func executeScenario(path string) ScenarioResult {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return ScenarioResult{Name: filepath.Base(path), Error: err.Error()}
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return ScenarioResult{Name: scenario.Name, Error: err.Error()}
	}

	return ScenarioResult{
		Name:     scenario.Name,
		Passed:   result.OK(),
		Failures: result.Failures,
	}
}

// findScenarioFiles returns all .yaml/.yml files under dir, sorted.
func findScenarioFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func printScenarioResults(formatter *OutputFormatter, results []ScenarioResult) {
	passed := 0
	for _, result := range results {
		switch {
		case result.Error != "":
			fmt.Fprintf(formatter.Writer, "ERROR %s: %s\n", result.Name, result.Error)
		case result.Passed:
			fmt.Fprintf(formatter.Writer, "PASS  %s\n", result.Name)
			passed++
		default:
			fmt.Fprintf(formatter.Writer, "FAIL  %s\n", result.Name)
			for _, failure := range result.Failures {
				fmt.Fprintf(formatter.Writer, "      %s\n", failure)
			}
		}
	}
	fmt.Fprintf(formatter.Writer, "%d/%d scenario(s) passed\n", passed, len(results))
}
