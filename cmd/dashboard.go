package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "dashboard [selector]",
		Short: "Browse modules and request runs in an interactive TUI",
		Long: `Opens the module dashboard of the configured terraform-applier.

The optional selector works like the URL fragment of the web dashboard:
  namespace          shows the modules of one namespace
  namespace_module   also opens the detail of that module
  (empty)            shows every module

Details of a Running module are reloaded every poll interval until it
finishes. Plan and apply runs are requested with 'p' and 'f'.

With --no-tui the modules matching the selector are logged once and, when
the selector names a module, its state changes are logged until the
command is interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := ""
			if len(args) == 1 {
				hash = args[0]
			}

			application, err := newApplication(noTUI, hash)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(commandContext(cmd))
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Log module states instead of starting the TUI")
	return cmd
}
