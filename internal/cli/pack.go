package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mix-pkg/mix/pkg/archive"
	"github.com/mix-pkg/mix/pkg/errors"
)

// NewPackCmd creates the pack command for building package archives.
func NewPackCmd() *cobra.Command {
	var (
		name        string
		versionText string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "pack SOURCE_DIR",
		Short: "Build a package archive from a directory",
		Long: `Build a .tar.xz package archive from the contents of a directory. The
.MANIFEST entry is generated from the --name and --version flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest := archive.Manifest{Name: name, Version: versionText}
			if output == "" {
				output = fmt.Sprintf("%s.tar.xz", name)
			}
			if err := archive.Pack(cmd.Context(), args[0], manifest, output); err != nil {
				return errors.Wrapf(err, "failed to pack %s", args[0])
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "package name (required)")
	cmd.Flags().StringVar(&versionText, "version", "", "package version")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive path (default NAME.tar.xz)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
