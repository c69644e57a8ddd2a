package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

// runtimeError marks failures that happen after the arguments were accepted.
type runtimeError struct{ err error }

func (e runtimeError) Error() string { return e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

func runtimeErr(err error) error {
	if err == nil {
		return nil
	}
	return runtimeError{err: err}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "peerlens",
		Short:         "Anonymous peer-review aggregation",
		Long:          "peerlens summarizes peer-review submissions offline and derives reviewer pseudonyms.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newSummarizeCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newKeywordsCmd())
	root.AddCommand(newPseudonymCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print peerlens version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "peerlens version %s\n", version)
		},
	})
	return root
}

// Run executes the command line in args and returns an exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var re runtimeError
		if errors.As(err, &re) {
			return ExitRuntimeError
		}
		return ExitUsageError
	}
	return ExitSuccess
}
