package cli

import (
	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/pkg/errors"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update [PACKAGE...]",
		Aliases: []string{"up"},
		Short:   "Update packages",
		Long: `Refresh package versions from the freshest cached archives. Without
arguments every known package is considered.`,
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
			updateErr := orch.Update(args)
			if err := saveStore(st, cfg); err != nil {
				return err
			}
			if updateErr != nil {
				return errors.Wrap(updateErr, "failed to update packages")
			}
			return nil
		},
	}
}
