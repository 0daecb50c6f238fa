package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridable at build time with -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the myduck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "myduck %s\n", version)
		},
	}
}
