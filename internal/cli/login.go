package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myducklabs/myduck/internal/config"
	"github.com/myducklabs/myduck/internal/service/provider"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"connect", "login-provider"},
		Short:   "Connect a local AI CLI provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd)
		},
	}
	return cmd
}

func runLogin(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	printSplash(out)

	bridge := provider.NewBridge(cfg.Provider)
	available := bridge.DetectAvailable(ctx)
	if len(available) == 0 {
		fmt.Fprintln(out, "[My Duck] No local CLI providers found. Install Claude CLI or Codex CLI first.")
		return nil
	}

	prefs := config.LoadPrefs()
	preferred := provider.Normalize(firstNonEmpty(cfg.Provider.Preferred, prefs.CliProvider, prefs.LastProvider))

	reader := bufio.NewReader(cmd.InOrStdin())
	selected := selectProvider(reader, out, preferred, available)

	fmt.Fprintf(out, "\nProvider selected: %s\n", selected.Label())
	fmt.Fprintln(out, "Launching provider CLI login flow...")

	if err := bridge.Login(ctx, selected); err != nil {
		fmt.Fprintf(out, "[My Duck] %s login failed: %v\n", selected.Label(), err)
		return nil
	}

	prefs.AuthMode = "cli"
	prefs.CliProvider = string(selected)
	prefs.LastProvider = string(selected)
	if !config.SavePrefs(prefs) {
		fmt.Fprintln(out, "[My Duck] CLI login succeeded but config could not be saved.")
		return nil
	}

	fmt.Fprintf(out, "\n[My Duck] %s connected via CLI.\n", selected.Label())
	return nil
}
