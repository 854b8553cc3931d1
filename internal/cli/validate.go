package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/world"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Dataset DatasetFlags
}

// ValidationSummary is the JSON payload for a successful validation.
type ValidationSummary struct {
	Regions     int    `json:"regions"`
	Locations   int    `json:"locations"`
	Events      int    `json:"events"`
	GoalEvent   string `json:"goal_event"`
	Fingerprint string `json:"fingerprint"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset by building its graph in strict mode",
		Long: `Validate a dataset: every rule must compile without diagnostics and
the graph must build without structural errors (duplicate rule keys,
unreachable locations or events, elision cycles).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	opts.Dataset.Register(cmd)

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
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
	ctx.Strict = true
	ctx.Logger = slog.New(slog.NewTextHandler(formatter.GetErrWriter(), nil))

	graph, err := world.Build(ctx)
	if err != nil {
		formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	fingerprint, err := graph.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprinting graph", err)
	}

	summary := ValidationSummary{
		Regions:     len(graph.Regions()),
		Locations:   len(graph.Locations),
		Events:      len(graph.Events),
		GoalEvent:   graph.GoalEvent,
		Fingerprint: fingerprint,
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "dataset valid\n")
	fmt.Fprintf(formatter.Writer, "  regions:     %d\n", summary.Regions)
	fmt.Fprintf(formatter.Writer, "  locations:   %d\n", summary.Locations)
	fmt.Fprintf(formatter.Writer, "  events:      %d\n", summary.Events)
	fmt.Fprintf(formatter.Writer, "  goal:        %s\n", summary.GoalEvent)
	fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", summary.Fingerprint)
	return nil
}
