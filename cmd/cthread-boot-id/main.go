// Command cthread-boot-id prints the kernel's boot id, the Go port of
// tools/boot_id.cpp.
package main

import (
	"fmt"
	"os"

	"github.com/cthread-go/cthread/osinfo"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "cthread-boot-id",
		Short: "Print the current boot id (/proc/sys/kernel/random/boot_id)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := osinfo.BootID()
			if err != nil {
				return err
			}
			fmt.Println(id.String())
			return nil
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cthread-boot-id:", err)
		os.Exit(1)
	}
}
