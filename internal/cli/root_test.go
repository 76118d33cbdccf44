package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/config"
	apperrors "github.com/blackwell-systems/velostrata-iam-bootstrap/internal/errors"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud/gcloudtest"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/orchestrator"
)

type harness struct {
	runner *gcloudtest.FakeRunner
	out    *bytes.Buffer
	errOut *bytes.Buffer
	dir    string
}

// setup isolates viper and the filesystem and installs a fake gcloud.
func setup(t *testing.T, rules ...gcloudtest.Rule) *harness {
	t.Helper()

	color.NoColor = true
	viper.Reset()
	t.Cleanup(viper.Reset)

	previousLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previousLogger) })

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, config.Init())

	h := &harness{
		runner: gcloudtest.NewFakeRunner(rules...),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		dir:    dir,
	}

	previousRunner := newRunner
	newRunner = func(string, *slog.Logger) gcloud.Runner { return h.runner }
	t.Cleanup(func() { newRunner = previousRunner })

	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd("test")
	cmd.SetArgs(args)
	cmd.SetOut(h.out)
	cmd.SetErr(h.errOut)
	return execute(cmd, h.errOut)
}

func TestProvision_InvalidDeploymentNameMakesNoCalls(t *testing.T) {
	for _, name := range []string{"", "toolongname", "Upper", "a-b", "a_b"} {
		t.Run(name, func(t *testing.T) {
			h := setup(t)

			err := h.run("-d", name, "-p", "proj-x")
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.GetKind(err))
			assert.Empty(t, h.runner.Calls)
			assert.Contains(t, h.out.String(), "Usage:")
			assert.Contains(t, h.errOut.String(), "lowercase characters and numbers")
		})
	}
}

func TestProvision_MissingProject(t *testing.T) {
	h := setup(t)

	err := h.run("-d", "abc1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id is required")
	assert.Empty(t, h.runner.Calls)
}

func TestProvision_Success(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.run("-d", "abc1", "-p", "proj-x"))

	out := h.out.String()
	assert.Contains(t, out, "Enabled Google APIs: ")
	assert.Contains(t, out, "Created Velostrata Manager role: velos_manager_abc1 in: project proj-x\n")
	assert.Contains(t, out, "Created Velostrata Storage Access role: velos_ce_abc1 in: project proj-x\n")
	assert.Contains(t, out, "Created Velostrata Manager service account: velos-manager-abc1@proj-x.iam.gserviceaccount.com\n")
	assert.Contains(t, out, "Created Velostrata Cloud Extension service account: velos-cloud-extension-abc1@proj-x.iam.gserviceaccount.com\n")
	assert.Empty(t, h.errOut.String())
}

func TestProvision_OrganizationFlag(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.run("--deployment-name", "abc1", "--project-id", "proj-x", "--org-id", "999"))
	assert.Contains(t, h.out.String(), "Created Velostrata Manager role: velos_manager_abc1 in: organization 999\n")
	assert.Len(t, h.runner.CallsContaining("--role=organizations/999/roles/velos_manager_abc1"), 1)
}

func TestProvision_InvalidConfigOmitsUsage(t *testing.T) {
	h := setup(t)

	err := h.run("-d", "abc1", "-p", "proj-x", "--gcloud", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrValidationKind)
	assert.Empty(t, h.runner.Calls)
	assert.NotContains(t, h.out.String(), "Usage:")
	assert.Contains(t, h.errOut.String(), "✗")
}

func TestProvision_FatalStepExitsWithError(t *testing.T) {
	h := setup(t, gcloudtest.Fail("iam roles create", "ERROR: PERMISSION_DENIED"))

	err := h.run("-d", "abc1", "-p", "proj-x")
	require.Error(t, err)

	var stepErr *orchestrator.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Contains(t, h.out.String(), "Failed creating Velostrata Manager role. ERROR: PERMISSION_DENIED\n")
	assert.Empty(t, h.runner.CallsContaining("iam service-accounts create"))
	assert.NotContains(t, h.out.String(), "Usage:")
	assert.NotContains(t, h.errOut.String(), "✗")
}

func TestProvision_IgnoreIAMFailures(t *testing.T) {
	h := setup(t, gcloudtest.Fail("services enable", "PERMISSION_DENIED"))

	require.NoError(t, h.run("-d", "abc1", "-p", "proj-x", "-i"))
	assert.Len(t, h.runner.CallsContaining("iam service-accounts create"), 2)
}

func TestProvision_ProjectFromEnvironment(t *testing.T) {
	h := setup(t)
	t.Setenv("VELOS_IAM_PROJECT_ID", "proj-env")

	require.NoError(t, h.run("-d", "abc1"))
	// API enables, role creates, account creates, self impersonation grant
	assert.Len(t, h.runner.CallsContaining("--project proj-env"), 4+2+2+1)
}

func TestProvision_CustomCatalog(t *testing.T) {
	h := setup(t)
	path := filepath.Join(h.dir, "iam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apis: [iam.googleapis.com]
mgmt:
  permissions: [compute.instances.get]
  roles: []
ce:
  permissions: [storage.objects.get]
  roles: []
`), 0o644))

	require.NoError(t, h.run("-d", "abc1", "-p", "proj-x", "--catalog", path))
	assert.Len(t, h.runner.CallsContaining("services enable"), 1)
	assert.Len(t, h.runner.CallsContaining("--permissions compute.instances.get"), 1)
}

func TestStatusCommand(t *testing.T) {
	h := setup(t,
		gcloudtest.Reply("version", "Google Cloud SDK 480.0.0\n"),
		gcloudtest.Reply("get-value account", "admin@example.com\n"),
	)

	require.NoError(t, h.run("status"))
	assert.Contains(t, h.out.String(), "✓ Google Cloud SDK 480.0.0")
	assert.Contains(t, h.out.String(), "✓ admin@example.com")
}

func TestStatusCommand_MissingTool(t *testing.T) {
	h := setup(t, gcloudtest.Rule{Match: "version", Response: gcloudtest.Response{Err: errors.New("not found")}})

	err := h.run("status")
	assert.ErrorIs(t, err, errToolUnavailable)
	assert.Contains(t, h.out.String(), "MISSING")
}

func TestCatalogCommands(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.run("catalog", "validate"))
	assert.Contains(t, h.out.String(), "Catalog (built-in) is valid")

	h.out.Reset()
	require.NoError(t, h.run("catalog", "show"))
	assert.Contains(t, h.out.String(), "iam.googleapis.com")
	assert.Contains(t, h.out.String(), "Cloud Extension (ce)")
	assert.Contains(t, h.out.String(), "storage.objects.get")

	exported := filepath.Join(h.dir, "exported.yaml")
	require.NoError(t, h.run("catalog", "export", exported))
	assert.FileExists(t, exported)

	h.out.Reset()
	require.NoError(t, h.run("catalog", "validate", exported))
	assert.Contains(t, h.out.String(), "is valid")
}

func TestCatalogValidate_Invalid(t *testing.T) {
	h := setup(t)
	path := filepath.Join(h.dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apis": [], "mgmt": {"permissions": ["compute.*"]}}`), 0o644))

	err := h.run("catalog", "validate", path)
	require.Error(t, err)
	assert.Contains(t, h.out.String(), "wildcards are not allowed")
}

func TestConfigCommands(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.run("config", "set", "project-id", "proj-saved"))
	assert.FileExists(t, filepath.Join(h.dir, ".velos-iam", "config.yaml"))

	h.out.Reset()
	require.NoError(t, h.run("config", "get"))
	assert.Contains(t, h.out.String(), "proj-saved")

	assert.Error(t, h.run("config", "set", "deployment-name", "abc1"))
}

func TestConfigSet_IgnoresEnvironmentOverrides(t *testing.T) {
	h := setup(t)
	t.Setenv("VELOS_IAM_DEPLOYMENT_NAME", "envdep")
	t.Setenv("VELOS_IAM_IGNORE_IAM_FAILURES", "true")

	require.NoError(t, h.run("config", "set", "log-level", "debug"))

	data, err := os.ReadFile(filepath.Join(h.dir, ".velos-iam", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log-level: debug")
	assert.NotContains(t, string(data), "deployment-name")
	assert.NotContains(t, string(data), "ignore-iam-failures")
}

func TestVersionCommand(t *testing.T) {
	h := setup(t)

	require.NoError(t, h.run("version"))
	assert.Contains(t, h.out.String(), "velos-iam version test")
	assert.Contains(t, h.out.String(), "Built-in catalog:")
}
