package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change velos-iam settings",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the resolved configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := config.Display()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Persist a setting to the config file",
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.SettableKeys,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Set(args[0], args[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "%s set to %s", args[0], args[1])
				return nil
			},
		},
	)

	return configCmd
}
