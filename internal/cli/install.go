package cli

import (
	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/pkg/errors"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install PACKAGE...",
		Aliases: []string{"in"},
		Short:   "Install packages",
		Long: `Install one or more packages. An argument that does not name a known
package is treated as the path to a local package archive.`,
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

			// The store is saved even when a batch fails part-way:
			// packages applied before the failure keep their new state.
			orch := newOrchestrator(cfg, st)
			installErr := orch.Install(cmd.Context(), args)
			if err := saveStore(st, cfg); err != nil {
				return err
			}
			if installErr != nil {
				return errors.Wrap(installErr, "failed to install packages")
			}
			return nil
		},
	}
}
