// Package cli implements the velos-iam command tree.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/logger"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/orchestrator"
)

// newRunner builds the gcloud gateway; tests swap it for a fake
var newRunner = func(path string, log *slog.Logger) gcloud.Runner {
	return gcloud.NewCLI(path, log)
}

const longHelp = `*** Creating Velostrata GCP Roles and Service Accounts ***

Creates the custom roles and service accounts a Velostrata deployment needs:
a service account for the Velostrata Manager and a service account for the
Velostrata Cloud Extension, each bound to its own custom role.

Two migration scenarios are supported:
  1. Migration of VMs into multiple GCP projects under the same organization
     (pass --org-id; the Manager role is created at the organization).
  2. Migration of VMs into a single GCP project.

Re-running with the same deployment name is safe: existing roles and accounts
are reported and their role bindings are re-applied.

Provide the created service accounts to the Velostrata marketplace deployment form.`

const examples = `  # Service accounts for migration into multiple projects under the same organization
  velos-iam -d deployment1 -p my-project-id -o 123451234

  # Service accounts for migration into a single project
  velos-iam -d deployment1 -p my-project-id`

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "velos-iam",
		Short:         "Create Velostrata GCP roles and service accounts",
		Long:          longHelp,
		Example:       examples,
		Version:       version,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(viper.GetString(config.KeyLogLevel))
			if err != nil {
				return err
			}
			if debug {
				level = slog.LevelDebug
			}
			logger.Initialize(level, color.NoColor)
			return nil
		},
		RunE: runProvision,
	}

	flags := rootCmd.Flags()
	flags.StringP("deployment-name", "d", "", "The deployment's suffix appended to service account and role names (1-8 lowercase letters and numbers)")
	flags.StringP("project-id", "p", "", "The ID of the GCP project that will host your migration")
	flags.StringP("org-id", "o", "", "Numeric GCP organization ID")
	flags.BoolP("ignore-iam-failures", "i", false, "Continue when enabling an API fails")
	_ = flags.MarkHidden("ignore-iam-failures")

	persistent := rootCmd.PersistentFlags()
	persistent.String("catalog", "", "Permission catalog file (.json or .yaml); defaults to the built-in catalog")
	persistent.String("gcloud", "", "Path to the gcloud executable")
	persistent.BoolVar(&debug, "debug", false, "Enable debug logging")

	// Bind flags to viper
	viper.BindPFlag(config.KeyDeploymentName, flags.Lookup("deployment-name"))
	viper.BindPFlag(config.KeyProjectID, flags.Lookup("project-id"))
	viper.BindPFlag(config.KeyOrgID, flags.Lookup("org-id"))
	viper.BindPFlag(config.KeyIgnoreIAMFailures, flags.Lookup("ignore-iam-failures"))
	viper.BindPFlag(config.KeyCatalogFile, persistent.Lookup("catalog"))
	viper.BindPFlag(config.KeyGcloudPath, persistent.Lookup("gcloud"))

	rootCmd.AddCommand(
		newCatalogCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the command tree and reports any error once
func Execute(version string) error {
	return execute(NewRootCmd(version), os.Stderr)
}

func execute(rootCmd *cobra.Command, stderr io.Writer) error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	// Step failures were already reported on their own line
	var stepErr *orchestrator.StepError
	if !errors.As(err, &stepErr) {
		color.New(color.FgRed).Fprintf(stderr, "✗ %v\n", err)
	}
	return err
}

func printSuccess(w io.Writer, format string, a ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", a...)
}

func printErr(w io.Writer, format string, a ...any) {
	color.New(color.FgRed).Fprintf(w, "✗ "+format+"\n", a...)
}
