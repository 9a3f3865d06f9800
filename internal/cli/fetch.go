package cli

import (
	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/pkg/errors"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fetch PACKAGE...",
		Aliases: []string{"fe"},
		Short:   "Download packages without installing them",
		Long: `Download the archives of the named packages into the package cache.
Nothing is installed; archives already in the cache are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			orch := newOrchestrator(cfg, st)
			if err := orch.Fetch(cmd.Context(), args); err != nil {
				return errors.Wrap(err, "failed to fetch packages")
			}
			return nil
		},
	}
}
