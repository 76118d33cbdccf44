package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/catalog"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "velos-iam version %s\n", cmd.Root().Version)

			c, err := catalog.Default()
			if err != nil {
				return
			}
			fmt.Fprintln(out, "\nBuilt-in catalog:")
			fmt.Fprintf(out, "  APIs:                    %d\n", len(c.APIs))
			fmt.Fprintf(out, "  Manager permissions:     %d\n", len(c.Manager.Permissions))
			fmt.Fprintf(out, "  Extension permissions:   %d\n", len(c.CloudExtension.Permissions))
		},
	}
}
