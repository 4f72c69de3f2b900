package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/pkg/hbnb"
)

const modulePath = "github.com/mesh-intelligence/hbnb"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hbnb version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hbnb v%s\nmodule: %s\n", hbnb.Version, modulePath)
			return nil
		},
	}
}
