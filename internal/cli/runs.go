package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DB    string
	Limit int
	Token string
}

// RunRecord is the JSON payload for one history entry.
type RunRecord struct {
	Token       string         `json:"token"`
	CreatedAt   string         `json:"created_at"`
	GoalEvent   string         `json:"goal_event"`
	Fingerprint string         `json:"fingerprint"`
	SlotData    map[string]any `json:"slot_data"`
	Diagnostics int            `json:"diagnostics"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded generation runs",
		Long: `List runs from the history database, newest first. With --token,
show a single run in full instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "mossgen.db", "run-history database path")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to list (0 = all)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "show a single run by token")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB), nil)
		return NewExitError(ExitCommandError, "database not found")
	}

	db, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStoreError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening run history", err)
	}
	defer db.Close()

	if opts.Token != "" {
		run, err := db.GetRun(cmd.Context(), opts.Token)
		if err != nil {
			formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading run", err)
		}
		return outputRuns(formatter, opts.Format, []store.Run{run})
	}

	runs, err := db.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		formatter.Error(ErrCodeStoreError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	return outputRuns(formatter, opts.Format, runs)
}

func outputRuns(formatter *OutputFormatter, format string, runs []store.Run) error {
	if format == "json" {
		records := make([]RunRecord, len(runs))
		for i, run := range runs {
			records[i] = RunRecord{
				Token:       run.Token,
				CreatedAt:   run.CreatedAt.Format(time.RFC3339Nano),
				GoalEvent:   run.GoalEvent,
				Fingerprint: run.Fingerprint,
				SlotData:    run.SlotData,
				Diagnostics: run.Diagnostics,
			}
		}
		return formatter.Success(records)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  goal=%s  graph=%.12s\n",
			run.Token,
			run.CreatedAt.Format(time.RFC3339),
			run.GoalEvent,
			run.Fingerprint,
		)
	}
	return nil
}
