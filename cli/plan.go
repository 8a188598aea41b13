package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit/plan"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <file.cue>",
		Short: "Execute a CUE plan file",
		Long: `Load a CUE plan file and execute its runs in order, appending one
record per repeat. Execution stops at the first failing run; records
appended before the failure stay in the database.

Example:
  rootfind plan sweep.cue
  rootfind plan sweep.cue --db /tmp/sweep.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	return cmd
}

func runPlan(opts *PlanOptions, path string, cmd *cobra.Command) error {
	p, err := plan.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load plan", err)
	}

	eng, err := opts.openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	f := opts.formatter(cmd)
	f.VerboseLog("plan %s: %d runs", p.Name, len(p.Runs))

	report, execErr := p.Execute(cmd.Context(), eng)

	// Render whatever completed before deciding the exit code, so a
	// partial sweep still reports the records it appended.
	if f.Format == "json" {
		if err := f.Success(planData(report)); err != nil {
			return err
		}
	} else {
		renderPlanText(f, report)
	}

	if execErr != nil {
		return commandError("plan failed", execErr)
	}
	return nil
}

func renderPlanText(f *OutputFormatter, report *plan.Report) {
	fmt.Fprintf(f.Writer, "plan %s\n", report.Plan)
	for i, entry := range report.Entries {
		fmt.Fprintf(f.Writer, "  runs[%d]  task=%s  method=%s  repeat=%d  records=%d\n",
			i, entry.TaskType, entry.MethodType, entry.Repeat, len(entry.RunIDs))
	}
	fmt.Fprintf(f.Writer, "total records: %d\n", report.Records())
}

// planEntryData is the JSON shape of one executed plan entry.
type planEntryData struct {
	TaskType   string   `json:"task_type"`
	MethodType string   `json:"method_type"`
	Repeat     int      `json:"repeat"`
	RunIDs     []string `json:"run_ids"`
}

type planReportData struct {
	Plan    string          `json:"plan"`
	Entries []planEntryData `json:"entries"`
	Records int             `json:"records"`
}

func planData(report *plan.Report) planReportData {
	entries := make([]planEntryData, 0, len(report.Entries))
	for _, e := range report.Entries {
		entries = append(entries, planEntryData{
			TaskType:   e.TaskType,
			MethodType: e.MethodType,
			Repeat:     e.Repeat,
			RunIDs:     e.RunIDs,
		})
	}
	return planReportData{
		Plan:    report.Plan,
		Entries: entries,
		Records: report.Records(),
	}
}
