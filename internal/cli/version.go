package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/version"
)

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cashregister %s\n", version.Version)
			fmt.Printf("  built: %s\n", version.BuildTime)
			fmt.Printf("  go:    %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	return cmd
}
