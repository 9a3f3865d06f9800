package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the mix build version, overridable at link time.
var Version = "0.3.0-dev"

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mix version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("mix %s\n", Version)
		},
	}
}
