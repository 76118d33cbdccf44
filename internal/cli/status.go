package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that gcloud is installed and authenticated",
		Long:  `Run gcloud to report its version and the active account before provisioning.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			status := gcloud.Status(cmd.Context(), newRunner(cfg.GcloudPath, nil))

			cyan := color.New(color.FgCyan)
			cyan.Fprintln(out, "Check            Status")
			cyan.Fprintln(out, "────────────────────────────────────────")

			printToolStatus(cmd, status)

			account := color.YellowString("⚠ none (run gcloud auth login)")
			if status.Account != "" {
				account = color.GreenString("✓ %s", status.Account)
			}
			color.New().Fprintf(out, "%-16s %s\n", "Account", account)

			if status.Tool != gcloud.ToolReady {
				return errToolUnavailable
			}
			return nil
		},
	}
}

var errToolUnavailable = errors.New("gcloud is not usable; install the Google Cloud SDK or set --gcloud")

func printToolStatus(cmd *cobra.Command, status *gcloud.Preflight) {
	var statusText string
	switch status.Tool {
	case gcloud.ToolReady:
		statusText = color.GreenString("✓ %s", status.Version)
	case gcloud.ToolMissing:
		statusText = color.RedString("✗ MISSING (%s)", status.Detail)
	case gcloud.ToolBroken:
		statusText = color.YellowString("⚠ BROKEN (%s)", status.Detail)
	default:
		statusText = color.RedString("✗ UNKNOWN")
	}

	color.New().Fprintf(cmd.OutOrStdout(), "%-16s %s\n", "gcloud", statusText)
}
