package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/store"
	"github.com/roach88/mossgen/internal/world"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Dataset DatasetFlags
	DB      string
}

// GenerateResult is the JSON payload for a recorded run.
type GenerateResult struct {
	Token       string         `json:"token"`
	GoalEvent   string         `json:"goal_event"`
	Fingerprint string         `json:"fingerprint"`
	SlotData    map[string]any `json:"slot_data"`
	Diagnostics int            `json:"diagnostics"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a generation: build the graph, mint a token, record the run",
		Long: `Build the graph for a dataset and option set, mint a UUIDv7 run
token, and append the run to the history database: token, options,
goal, and graph fingerprint.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	opts.Dataset.Register(cmd)
	cmd.Flags().StringVar(&opts.DB, "db", "mossgen.db", "run-history database path")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
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

	gen := world.UUIDv7Generator{}
	token := gen.Generate()

	db, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStoreError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening run history", err)
	}
	defer db.Close()

	run := store.Run{
		Token:       token,
		CreatedAt:   time.Now().UTC(),
		Ending:      int(runOpts.Ending),
		GoalEvent:   graph.GoalEvent,
		SlotData:    runOpts.SlotData(),
		Fingerprint: fingerprint,
		Diagnostics: graph.Diagnostics,
	}
	if err := db.WriteRun(cmd.Context(), run); err != nil {
		formatter.Error(ErrCodeStoreError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "recording run", err)
	}
	formatter.VerboseLog("Recorded run %s in %s", token, opts.DB)

	result := GenerateResult{
		Token:       token,
		GoalEvent:   graph.GoalEvent,
		Fingerprint: fingerprint,
		SlotData:    runOpts.SlotData(),
		Diagnostics: graph.Diagnostics,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "token:       %s\n", result.Token)
	fmt.Fprintf(formatter.Writer, "goal:        %s\n", result.GoalEvent)
	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", result.Fingerprint)
	if result.Diagnostics > 0 {
		fmt.Fprintf(formatter.Writer, "diagnostics: %d\n", result.Diagnostics)
	}
	return nil
}
