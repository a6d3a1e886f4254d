package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"applierctl/internal/api"
	"applierctl/internal/app"
	"applierctl/internal/dashboard"
)

func newModuleCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "module <namespace>_<module>",
		Short: "Print the detail of a module",
		Long: `Prints the state and last run detail of a module.

With --follow a Running module is reloaded every poll interval and each
state change is printed until it finishes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := dashboard.ParseSelector(args[0])
			if !sel.HasModule() {
				return fmt.Errorf("%q: %w", args[0], api.ErrEmptySelector)
			}

			application, err := newApplication(true, sel.Key())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			out := cmd.OutOrStdout()
			var last string
			rep, err := application.Follow(commandContext(cmd), app.FollowOptions{
				Hash:         sel.Key(),
				Once:         !follow,
				UntilSettled: follow,
				OnReport: func(r app.Report) {
					if follow && r.Err == nil && r.State != last {
						last = r.State
						fmt.Fprintf(out, "%s: %s\n", r.Selector, r.State)
					}
				},
			})
			if err != nil {
				return err
			}

			if !follow {
				fmt.Fprintf(out, "%s: %s\n", rep.Selector, rep.State)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, rep.Detail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "Keep reloading while the module is Running")
	return cmd
}
