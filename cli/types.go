package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/plain"
)

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Show registered task, method and result types",
		Long: `Show every type registered on the bench, with declared parameters.
This reads the in-process registry only; no database is touched.

Example:
  rootfind types
  rootfind types --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(rootOpts, cmd)
		},
	}

	return cmd
}

func runTypes(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(typesData(opts.Bench))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "tasks:")
	for _, tt := range opts.Bench.TaskTypes() {
		writeType(w, tt.Name, tt.Label, tt.Description, tt.Params)
	}
	fmt.Fprintln(w, "methods:")
	for _, mt := range opts.Bench.MethodTypes() {
		writeType(w, mt.Name, mt.Label, mt.Description, mt.Params)
	}
	fmt.Fprintln(w, "results:")
	for _, rt := range opts.Bench.ResultTypes() {
		fmt.Fprintf(w, "  %s\n", rt.Name)
	}
	return nil
}

func writeType(w io.Writer, name, label, description string, params []benchkit.Param) {
	line := "  " + name
	if label != "" && label != name {
		line += "  (" + label + ")"
	}
	if description != "" {
		line += "  " + description
	}
	fmt.Fprintln(w, line)
	for _, p := range params {
		if len(p.Options) > 0 {
			fmt.Fprintf(w, "    %s %s %s\n", p.Name, p.Type, optionsString(p.Options))
			continue
		}
		fmt.Fprintf(w, "    %s %s\n", p.Name, p.Type)
	}
}

func optionsString(options []plain.Value) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, cellString(opt))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// paramData is the JSON shape of one declared parameter.
type paramData struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Options []plain.Value `json:"options,omitempty"`
}

// typeData is the JSON shape of one registered type.
type typeData struct {
	Name        string      `json:"name"`
	Label       string      `json:"label,omitempty"`
	Description string      `json:"description,omitempty"`
	Params      []paramData `json:"params,omitempty"`
}

// typesReport is the JSON payload of the types command.
type typesReport struct {
	Tasks   []typeData `json:"tasks"`
	Methods []typeData `json:"methods"`
	Results []typeData `json:"results"`
}

func typesData(b *benchkit.Bench) typesReport {
	report := typesReport{
		Tasks:   make([]typeData, 0, len(b.TaskTypes())),
		Methods: make([]typeData, 0, len(b.MethodTypes())),
		Results: make([]typeData, 0, len(b.ResultTypes())),
	}
	for _, tt := range b.TaskTypes() {
		report.Tasks = append(report.Tasks, newTypeData(tt.Name, tt.Label, tt.Description, tt.Params))
	}
	for _, mt := range b.MethodTypes() {
		report.Methods = append(report.Methods, newTypeData(mt.Name, mt.Label, mt.Description, mt.Params))
	}
	for _, rt := range b.ResultTypes() {
		report.Results = append(report.Results, typeData{Name: rt.Name})
	}
	return report
}

func newTypeData(name, label, description string, params []benchkit.Param) typeData {
	td := typeData{Name: name, Label: label, Description: description}
	for _, p := range params {
		td.Params = append(td.Params, paramData{
			Name:    p.Name,
			Type:    string(p.Type),
			Options: p.Options,
		})
	}
	return td
}
