package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// errExit is a sentinel error returned by cobra RunE functions to signal
// non-zero exit. The command has already written its own error to stderr.
var errExit = errors.New("exit")

// newRootCmd creates the root cobra command with all subcommands.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "cityflux",
		Short:         "cityflux — pedestrian-flow simulation and experiment runner",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newRunCmd(stdout, stderr),
		newLiveCmd(stdout, stderr),
		newValidateCmd(stdout, stderr),
		newSchemaCmd(stdout, stderr),
	)
	return root
}
