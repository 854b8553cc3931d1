package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/logic"
)

// SlotOptions holds flags for the slot command.
type SlotOptions struct {
	*RootOptions
	Dataset DatasetFlags
}

// NewSlotCommand creates the slot command.
func NewSlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Print the slot-data record for an option set",
		Long: `Print the flat slot-data record the configured options export, as
canonical JSON (RFC 8785). The record is byte-identical for identical
option sets, so it is safe to diff and hash.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlot(opts, cmd)
		},
	}

	opts.Dataset.Register(cmd)

	return cmd
}

func runSlot(opts *SlotOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// The dataset itself is not needed for slot data, but loading through
	// the shared flags keeps --options/--ending handling uniform.
	_, runOpts, err := opts.Dataset.Load()
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return err
	}

	slot := runOpts.SlotData()
	if opts.Format == "json" {
		return formatter.Success(slot)
	}

	canonical, err := logic.MarshalCanonical(slot)
	if err != nil {
		return WrapExitError(ExitCommandError, "serializing slot data", err)
	}
	fmt.Fprintln(formatter.Writer, string(canonical))
	return nil
}
