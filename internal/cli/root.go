// Package cli wires the myduck commands.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running myduck with no subcommand
// starts the chat loop.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "myduck",
		Short: "myduck - a rubber duck coach that only asks questions",
		Long: strings.Join([]string{
			"My Duck is a terminal thinking partner for developers.",
			"It never gives direct answers; it asks guiding questions instead.",
		}, "\n"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newDaemonCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
