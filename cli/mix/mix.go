// Command mix is the mix package manager CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/internal/cli"
)

var (
	configPath   string
	databasePath string
	installRoot  string
	assumeYes    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mix",
		Short: "A small transactional package manager",
		Long: `mix keeps a database of known and installed packages, computes the
changes needed for an install, remove or update request, and places package
archives onto the filesystem.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "C", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().StringVar(&databasePath, "database", "", "package database path (overrides config)")
	cmd.PersistentFlags().StringVar(&installRoot, "root", "", "filesystem root to install under (overrides config)")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "assume-yes", "y", false, "answer yes to every confirmation prompt")

	cli.ConfigPath = &configPath
	cli.DatabasePath = &databasePath
	cli.InstallRoot = &installRoot
	cli.AssumeYes = &assumeYes

	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewRemoveCmd(),
		cli.NewUpdateCmd(),
		cli.NewSyncCmd(),
		cli.NewFetchCmd(),
		cli.NewListCmd(),
		cli.NewPackCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
