package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/myducklabs/myduck/internal/config"
	"github.com/myducklabs/myduck/internal/daemon"
)

// newDaemonCmd runs the background service. The command is hidden: it exists
// so the supervisor can re-execute this binary detached, not for direct use.
func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "daemon",
		Short:  "Run the local duck daemon",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return daemon.Run(ctx, cfg)
		},
	}
}
