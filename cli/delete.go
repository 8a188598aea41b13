package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>...",
		Short: "Delete run records",
		Long: `Remove run records by id. Ids that match nothing are skipped, so a
retried delete is harmless. Task and method rows stay in place; other
runs may still reference them.

Example:
  rootfind delete 0198c5b1-7e3a-7c9f-a0d2-4f6e8a1b2c3d
  rootfind delete 0198c5b1-... 0198c5b2-... --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, cmd *cobra.Command, ids []string) error {
	eng, err := opts.openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	deleted, err := eng.DeleteRuns(cmd.Context(), ids)
	if err != nil {
		return commandError("delete runs", err)
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(map[string]int64{"deleted": deleted})
	}

	noun := "runs"
	if deleted == 1 {
		noun = "run"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d %s\n", deleted, noun)
	return nil
}
