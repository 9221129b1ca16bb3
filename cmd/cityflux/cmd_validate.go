package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nyxgrid/cityflux/internal/scenario"
)

// newValidateCmd creates the "cityflux validate" subcommand.
func newValidateCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.json>...",
		Short: "Validate one or more scenario diff files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if cmdValidate(args, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
}

func cmdValidate(paths []string, stdout, stderr io.Writer) int {
	color := isatty.IsTerminal(os.Stdout.Fd())
	ok := func(path string) { printResult(stdout, color, path, "OK", true) }
	fail := func(path string, err error) { printResult(stderr, color, path, err.Error(), false) }

	exit := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fail(path, err)
			exit = 1
			continue
		}
		if _, err := scenario.ParseAndValidate(data); err != nil {
			fail(path, err)
			exit = 1
			continue
		}
		ok(path)
	}
	return exit
}

func printResult(w io.Writer, color bool, path, msg string, pass bool) {
	if !color {
		fmt.Fprintf(w, "%s: %s\n", path, msg) //nolint:errcheck // best-effort output
		return
	}
	const (
		green = "\033[32m"
		red   = "\033[31m"
		reset = "\033[0m"
	)
	c := red
	if pass {
		c = green
	}
	fmt.Fprintf(w, "%s%s%s: %s\n", c, path, reset, msg) //nolint:errcheck // best-effort output
}
