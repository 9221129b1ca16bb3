package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nyxgrid/cityflux/internal/scenario"
)

// newSchemaCmd creates the "cityflux schema" subcommand: it prints the
// generated JSON Schema for the scenario diff format, matching the pack's
// gascity cmd/genschema pattern of publishing a reflected schema as
// documentation alongside the hand-written validator that actually enforces
// it (internal/scenario.ParseAndValidate).
func newSchemaCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for scenario diff files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if cmdSchema(stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
}

func cmdSchema(stdout, stderr io.Writer) int {
	data, err := json.MarshalIndent(scenario.Schema(), "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "schema: marshal: %v\n", err) //nolint:errcheck // best-effort output
		return 1
	}
	fmt.Fprintln(stdout, string(data)) //nolint:errcheck // best-effort output
	return 0
}
