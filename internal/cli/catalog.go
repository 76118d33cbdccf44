package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/catalog"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
)

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the permission catalog",
		Long: `The permission catalog lists the APIs to enable and, for the Manager (mgmt)
and Cloud Extension (ce) service accounts, the permissions of their custom
roles and the predefined roles bound to them.`,
	}

	catalogCmd.AddCommand(
		&cobra.Command{
			Use:   "validate [file]",
			Short: "Validate a catalog file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := catalogPath(args)
				c, err := loadCatalog(path)
				if err != nil {
					return err
				}

				result := c.Validate()
				out := cmd.OutOrStdout()
				if !result.Valid {
					for _, e := range result.Errors {
						printErr(out, "%s", e)
					}
					return fmt.Errorf("catalog %s has %d error(s)", describePath(path), len(result.Errors))
				}

				printSuccess(out, "Catalog %s is valid", describePath(path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the APIs, permissions and roles in the catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := catalog.Resolve(viper.GetString(config.KeyCatalogFile))
				if err != nil {
					return err
				}
				renderCatalog(cmd.OutOrStdout(), c)
				return nil
			},
		},
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write the active catalog to a file (.json or .yaml) for editing",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := catalog.Resolve(viper.GetString(config.KeyCatalogFile))
				if err != nil {
					return err
				}
				if err := catalog.Save(c, args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Catalog written to %s", args[0])
				return nil
			},
		},
	)

	return catalogCmd
}

func catalogPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return viper.GetString(config.KeyCatalogFile)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func describePath(path string) string {
	if path == "" {
		return "(built-in)"
	}
	return path
}

func renderCatalog(w io.Writer, c *catalog.Catalog) {
	apis := table.NewWriter()
	apis.SetOutputMirror(w)
	apis.AppendHeader(table.Row{"API"})
	for _, api := range c.APIs {
		apis.AppendRow(table.Row{api})
	}
	apis.Render()

	for _, class := range []struct {
		name  string
		class catalog.Class
	}{
		{"Manager (mgmt)", c.Manager},
		{"Cloud Extension (ce)", c.CloudExtension},
	} {
		fmt.Fprintln(w)
		color.New(color.FgCyan).Fprintln(w, class.name)

		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"Kind", "Name"})
		for _, role := range class.class.Roles {
			tw.AppendRow(table.Row{"role", role})
		}
		for _, perm := range class.class.Permissions {
			tw.AppendRow(table.Row{"permission", perm})
		}
		tw.AppendFooter(table.Row{"", fmt.Sprintf("%d roles, %d permissions", len(class.class.Roles), len(class.class.Permissions))})
		tw.Render()
	}
}
