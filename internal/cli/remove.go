package cli

import (
	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/pkg/errors"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove PACKAGE...",
		Aliases: []string{"re"},
		Short:   "Remove packages",
		Long: `Mark one or more installed packages as uninstalled. The package records
stay in the database so the packages can be reinstalled later.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			orch := newOrchestrator(cfg, st)
			removeErr := orch.Remove(args)
			if err := saveStore(st, cfg); err != nil {
				return err
			}
			if removeErr != nil {
				return errors.Wrap(removeErr, "failed to remove packages")
			}
			return nil
		},
	}
}
