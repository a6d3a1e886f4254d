package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	fakeapplier "applierctl/internal/testing"
	"applierctl/pkg/logging"
)

func newFakeServerCmd() *cobra.Command {
	var (
		scenarioPath string
		listen       string
	)

	cmd := &cobra.Command{
		Use:    "fake-server",
		Short:  "Serve a fake terraform-applier for local testing",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if rootDebug {
				level = logging.LevelDebug
			}
			logging.InitForCLI(level, cmd.ErrOrStderr())

			scenario := fakeapplier.Scenario{}
			if scenarioPath != "" {
				var err error
				if scenario, err = fakeapplier.LoadScenario(scenarioPath); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              listen,
				Handler:           fakeapplier.NewApplier(scenario),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logging.Info("FakeApplier", "Serving %d modules on %s", len(scenario.Modules), listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("fake applier stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario with the modules to serve")
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "Address to listen on")
	return cmd
}
