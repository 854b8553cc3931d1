package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/world"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Dataset DatasetFlags
	Output  string
	Slot    bool
}

// GraphDump is the JSON payload for the graph command.
type GraphDump struct {
	Dump        string         `json:"dump"`
	Fingerprint string         `json:"fingerprint"`
	GoalEvent   string         `json:"goal_event"`
	SlotData    map[string]any `json:"slot_data,omitempty"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build a dataset's graph and print its dump",
		Long: `Build the traversal graph for a dataset and option set, then print
the deterministic text dump and the graph fingerprint. The dump is the
same text the conformance harness pins in golden files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, cmd)
		},
	}

	opts.Dataset.Register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the dump to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Slot, "slot", false, "include the slot-data record")

	return cmd
}

func runGraph(opts *GraphOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dataset, runOpts, err := opts.Dataset.Load()
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return err
	}

	ctx, err := dataset.Context(runOpts)
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "assembling build context", err)
	}

	graph, err := world.Build(ctx)
	if err != nil {
		formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "building graph", err)
	}

	fingerprint, err := graph.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprinting graph", err)
	}

	dump := graph.Dump()
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(dump), 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing dump", err)
		}
		formatter.VerboseLog("Wrote dump to %s", opts.Output)
	}

	payload := GraphDump{
		Dump:        dump,
		Fingerprint: fingerprint,
		GoalEvent:   graph.GoalEvent,
	}
	if opts.Slot {
		payload.SlotData = runOpts.SlotData()
	}

	if opts.Format == "json" {
		return formatter.Success(payload)
	}

	if opts.Output == "" {
		fmt.Fprint(formatter.Writer, dump)
	}
	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", fingerprint)
	if opts.Slot {
		fmt.Fprintf(formatter.Writer, "slot: %v\n", payload.SlotData)
	}
	return nil
}
