// Command cthread-has-vdso checks whether the kernel mapped a vDSO into
// this process, the Go port of tools/has_vdso.cpp. Processes relying on
// time(2) can run noticeably off-clock without one.
package main

import (
	"fmt"
	"os"

	"github.com/cthread-go/cthread/osinfo"
	"github.com/spf13/cobra"
)

func main() {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   "cthread-has-vdso",
		Short: "Check whether the vDSO is mapped into this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			has, err := osinfo.HasVDSO()
			if err != nil {
				return err
			}

			if has {
				switch {
				case verbose:
					fmt.Println("the vDSO is active")
				case !quiet:
					fmt.Println("true")
				}
				return nil
			}

			switch {
			case verbose:
				fmt.Println("no vDSO was detected")
			case !quiet:
				fmt.Println("false")
			}
			os.Exit(1)
			return nil
		},
		SilenceUsage: true,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "be more verbose")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "be quiet")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cthread-has-vdso:", err)
		os.Exit(1)
	}
}
