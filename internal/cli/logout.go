package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myducklabs/myduck/internal/config"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved provider session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			prefs := config.LoadPrefs()
			prefs.AuthMode = "cli"
			prefs.CliProvider = ""

			if !config.SavePrefs(prefs) {
				fmt.Fprintln(out, "[My Duck] Could not persist logout, but session cleared in memory.")
				return nil
			}

			fmt.Fprintln(out, "[My Duck] CLI provider session cleared.")
			return nil
		},
	}
}
