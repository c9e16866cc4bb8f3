// Command cthread-show-threads lists the OS thread ids of a process, the
// Go port of tools/show_threads.cpp.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cthread-go/cthread/osinfo"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "cthread-show-threads <pid> ...",
		Short: "Print the OS thread ids belonging to the given process ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				pid, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%q is not a valid pid: %w", arg, err)
				}
				ids, err := osinfo.ThreadIDs(pid)
				if err != nil {
					return fmt.Errorf("listing threads for pid %d: %w", pid, err)
				}
				for _, id := range ids {
					fmt.Printf("%d ", id)
				}
				fmt.Println()
			}
			return nil
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cthread-show-threads:", err)
		os.Exit(1)
	}
}
