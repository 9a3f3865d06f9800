package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"li"},
		Short:   "List every known package",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			orch := newOrchestrator(cfg, st)
			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "NAME\tVERSION\tSTATE")
			for _, pkg := range orch.List() {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", pkg.Name, pkg.Version, pkg.State)
			}
			return writer.Flush()
		},
	}
}
