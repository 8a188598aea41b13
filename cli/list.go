package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit/engine"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	TaskType   string
	MethodType string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List run records in insertion order",
		Long: `List run records, oldest first. Filters narrow the listing by task
and method type; both together select their intersection.

Example:
  rootfind list
  rootfind list --task-type Cubic
  rootfind list --task-type Cubic --method-type NewtonSolver --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TaskType, "task-type", "", "only runs whose task has this type")
	cmd.Flags().StringVar(&opts.MethodType, "method-type", "", "only runs whose method has this type")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	eng, err := opts.openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	records, err := eng.ListRuns(cmd.Context(), engine.RunFilter{
		TaskType:   opts.TaskType,
		MethodType: opts.MethodType,
	})
	if err != nil {
		return commandError("list runs", err)
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(runData(records))
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s  seq=%d  %s  task=%s  method=%s  result=%s\n",
			rec.ID, rec.Seq, rec.CreatedAt.Format(timeFormat), rec.TaskType, rec.MethodType, rec.ResultType)
	}
	return nil
}
