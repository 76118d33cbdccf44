package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/catalog"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/deployment"
	apperrors "github.com/blackwell-systems/velostrata-iam-bootstrap/internal/errors"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/orchestrator"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/provision"
)

func runProvision(cmd *cobra.Command, args []string) error {
	// Load configuration (Viper resolves behind the scenes)
	cfg, err := config.Load()
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}

	deploy, err := deployment.New(deployment.Params{
		Name:              cfg.Deployment.Name,
		ProjectID:         cfg.Deployment.ProjectID,
		OrgID:             cfg.Deployment.OrgID,
		IgnoreIAMFailures: cfg.Deployment.IgnoreIAMFailures,
	})
	// Usage is printed for bad deployment parameters only
	cmd.SilenceUsage = !errors.Is(err, apperrors.ErrValidationKind)
	if err != nil {
		return err
	}

	cat, err := catalog.Resolve(cfg.CatalogFile)
	if err != nil {
		return err
	}

	log := slog.Default()
	log.Debug("starting provisioning",
		"deployment", deploy.Name(),
		"project", deploy.ProjectID(),
		"org", deploy.OrgID(),
		"catalog", cfg.CatalogFile,
	)

	p := provision.New(newRunner(cfg.GcloudPath, log), deploy, cat, log)
	reporter := orchestrator.NewConsoleReporter(cmd.OutOrStdout())

	return orchestrator.New(p, reporter, log).Run(cmd.Context())
}
