// Command cthread-is-running checks whether a set of process ids are
// currently running, the Go port of tools/process_is_running.cpp.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cthread-go/cthread/osinfo"
	"github.com/spf13/cobra"
)

func main() {
	var and, or, quiet bool

	root := &cobra.Command{
		Use:   "cthread-is-running <pid> ...",
		Short: "Check whether the given process ids are running",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, !or, quiet)
		},
		SilenceUsage: true,
	}
	root.Flags().BoolVarP(&and, "and", "a", true, "all of the processes must be running (default)")
	root.Flags().BoolVarP(&or, "or", "o", false, "at least one of the processes must be running")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print anything, only set the exit code")
	root.MarkFlagsMutuallyExclusive("and", "or")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cthread-is-running:", err)
		os.Exit(3)
	}
}

func run(args []string, all, quiet bool) error {
	for _, arg := range args {
		pid, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%q is not a valid pid: %w", arg, err)
		}

		running := osinfo.IsProcessRunning(pid)
		if all && !running {
			if !quiet {
				fmt.Printf("%s is not running.\n", arg)
			}
			os.Exit(1)
		}
		if !all && running {
			if !quiet {
				fmt.Printf("%s is running.\n", arg)
			}
			os.Exit(0)
		}
	}

	if all {
		if !quiet {
			fmt.Println("all processes are running.")
		}
		os.Exit(0)
	}

	if !quiet {
		fmt.Fprintln(os.Stderr, "none of these processes are running.")
	}
	os.Exit(1)
	return nil
}
