package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"applierctl/internal/api"
	"applierctl/internal/app"
	"applierctl/internal/dashboard"
)

type runOptions struct {
	planOnly bool
	lockID   string
	wait     bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <namespace> <module>",
		Short: "Request a force run of a module",
		Long: `Requests an apply run of a module, or a plan run with --plan-only.

A locked module only accepts runs that carry its lock id (--lock-id).
With --wait the module is followed until it is no longer Running and the
command fails when the run ended Errored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForceRun(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.planOnly, "plan-only", false, "Request a plan instead of an apply")
	cmd.Flags().StringVar(&opts.lockID, "lock-id", "", "Lock id to present for a locked module")
	cmd.Flags().BoolVar(&opts.wait, "wait", false, "Wait until the module is no longer Running")
	return cmd
}

func runForceRun(cmd *cobra.Command, args []string, opts *runOptions) error {
	sel := dashboard.Selector{Namespace: args[0], Module: args[1]}
	if !sel.HasModule() {
		return api.ErrModuleRequired
	}

	application, err := newApplication(true, sel.Key())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	out := cmd.OutOrStdout()
	var last string
	outcome, err := application.ForceRun(commandContext(cmd), app.RunOptions{
		Selector: sel,
		PlanOnly: opts.planOnly,
		LockID:   opts.lockID,
		Wait:     opts.wait,
		OnReport: func(r app.Report) {
			if r.Err == nil && r.State != last {
				last = r.State
				fmt.Fprintf(out, "%s: %s\n", r.Selector, r.State)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("force run of %s failed: %s", sel, api.ErrorDetail(err))
	}

	fmt.Fprintln(out, outcome.Message)
	if !opts.wait {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, outcome.Final.Detail)
	if outcome.Final.State == api.StateErrored {
		return fmt.Errorf("run of %s finished %s", sel, outcome.Final.State)
	}
	return nil
}
