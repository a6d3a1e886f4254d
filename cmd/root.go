package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"applierctl/internal/app"
)

// Global flags shared by every command that talks to an applier.
var (
	rootServer     string
	rootConfigPath string
	rootDebug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "applierctl",
	Short: "Watch and trigger terraform-applier modules from the terminal",
	Long: `applierctl is a terminal client for the terraform-applier web server.

It shows the modules of every namespace together with their state, follows
the detail of a module while it is running, and requests plan or apply
runs the same way the web dashboard does.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. rejected runs, unreachable servers)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "applierctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// newApplication bootstraps the application from the global flags.
func newApplication(noTUI bool, hash string) (*app.Application, error) {
	cfg := app.NewConfig(noTUI, rootDebug)
	cfg.ConfigPath = rootConfigPath
	cfg.ServerURL = rootServer
	cfg.Hash = hash
	return app.NewApplication(cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newModuleCmd())
	rootCmd.AddCommand(newFakeServerCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&rootServer, "server", "", "terraform-applier base URL (overrides server.url)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "configuration file to use instead of the user and project files")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
}
