package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/plain"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Task       string
	TaskArgs   string
	Method     string
	MethodArgs string
	Repeat     int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a task/method pair and record the result",
		Long: `Construct a task and a method from registered types, execute the
bench's run callback, and append one record per repeat to the database.

Arguments are JSON objects matching the declared params of the type.

Example:
  rootfind run --task Cubic --task-args '{"a":1,"b":0,"c":-2,"d":2}' --method NewtonSolver --method-args '{"x_0":1.5,"eps":0.001}'
  rootfind run --task Cubic --task-args '{"a":1,"b":0,"c":-2,"d":2}' --method RandomSolver --method-args '{"x_min":-4,"x_max":4}' --repeat 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPair(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Task, "task", "", "task type name (required)")
	_ = cmd.MarkFlagRequired("task")
	cmd.Flags().StringVar(&opts.TaskArgs, "task-args", "{}", "task arguments as a JSON object")
	cmd.Flags().StringVar(&opts.Method, "method", "", "method type name (required)")
	_ = cmd.MarkFlagRequired("method")
	cmd.Flags().StringVar(&opts.MethodArgs, "method-args", "{}", "method arguments as a JSON object")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of runs to execute")

	return cmd
}

func runPair(opts *RunOptions, cmd *cobra.Command) error {
	taskArgs, err := parseArgs(opts.TaskArgs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --task-args", err)
	}
	methodArgs, err := parseArgs(opts.MethodArgs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --method-args", err)
	}
	if opts.Repeat < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--repeat must be at least 1, got %d", opts.Repeat))
	}

	eng, err := opts.openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := cmd.Context()
	task, taskID, err := eng.CreateTask(ctx, opts.Task, taskArgs)
	if err != nil {
		return commandError("create task", err)
	}
	method, methodID, err := eng.CreateMethod(ctx, opts.Method, methodArgs)
	if err != nil {
		return commandError("create method", err)
	}

	f := opts.formatter(cmd)
	f.VerboseLog("task %s  method %s", taskID, methodID)

	records, err := eng.RunN(ctx, task, method, opts.Repeat)
	if err != nil {
		return commandError("run failed", err)
	}

	if f.Format == "json" {
		return f.Success(runData(records))
	}
	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s  seq=%d  task=%s  method=%s  result=%s\n",
			rec.ID, rec.Seq, rec.TaskType, rec.MethodType, rec.ResultType)
	}
	return nil
}

// parseArgs decodes a JSON object into constructor arguments. Integer
// literals stay Int so int params round-trip exactly.
func parseArgs(s string) (map[string]plain.Value, error) {
	v, err := plain.Unmarshal([]byte(s))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(plain.Object)
	if !ok {
		return nil, fmt.Errorf("arguments must be a JSON object, got %T", v)
	}
	return obj, nil
}

// runEntry is the JSON shape of one appended record.
type runEntry struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	TaskType   string `json:"task_type"`
	TaskID     string `json:"task_id"`
	MethodType string `json:"method_type"`
	MethodID   string `json:"method_id"`
	ResultType string `json:"result_type"`
	CreatedAt  string `json:"created_at"`
}

func runData(records []*benchkit.RunRecord) []runEntry {
	entries := make([]runEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, newRunEntry(rec))
	}
	return entries
}

func newRunEntry(rec *benchkit.RunRecord) runEntry {
	return runEntry{
		ID:         rec.ID,
		Seq:        rec.Seq,
		TaskType:   rec.TaskType,
		TaskID:     rec.TaskID,
		MethodType: rec.MethodType,
		MethodID:   rec.MethodID,
		ResultType: rec.ResultType,
		CreatedAt:  rec.CreatedAt.Format(timeFormat),
	}
}
