// Package provision creates the Velostrata roles and service accounts for a
// deployment by driving gcloud.
//
// Every create call tolerates the target already existing. When it does, the
// bindings that belong to the target are still applied before the call
// reports AlreadyExists, so re-running against an existing deployment repairs
// missing bindings instead of stopping at the first existing object.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/catalog"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/deployment"
	apperrors "github.com/blackwell-systems/velostrata-iam-bootstrap/internal/errors"
	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud"
)

// Provisioner issues the gcloud calls for one deployment.
type Provisioner struct {
	runner  gcloud.Runner
	deploy  *deployment.Context
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New returns a Provisioner for deploy using the permissions in cat.
func New(runner gcloud.Runner, deploy *deployment.Context, cat *catalog.Catalog, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		runner:  runner,
		deploy:  deploy,
		catalog: cat,
		logger:  logger.With("deployment", deploy.Name(), "project", deploy.ProjectID()),
	}
}

func (p *Provisioner) project() gcloud.Scope {
	return gcloud.Project(p.deploy.ProjectID())
}

// scope returns the organization scope when orgScoped is set, else the project.
func (p *Provisioner) scope(orgScoped bool) gcloud.Scope {
	if orgScoped {
		return gcloud.Organization(p.deploy.OrgID())
	}
	return p.project()
}

// run invokes gcloud. Failing to start the process at all is fatal.
func (p *Provisioner) run(ctx context.Context, target string, args []string) (*gcloud.Result, error) {
	res, err := p.runner.Run(ctx, args...)
	if err != nil {
		return nil, apperrors.ErrToolInvocation(target, "could not run gcloud", err)
	}
	return res, nil
}

// EnableAPIs enables every API in the catalog on the project.
// Non-zero exits are fatal unless the context ignores IAM failures.
func (p *Provisioner) EnableAPIs(ctx context.Context) (Outcome, error) {
	project := p.deploy.ProjectID()
	enabled := make([]string, 0, len(p.catalog.APIs))

	for _, api := range p.catalog.APIs {
		res, err := p.run(ctx, api, gcloud.EnableServiceArgs(api, project))
		if err != nil {
			return Outcome{}, err
		}
		if res.Failed() {
			if p.deploy.IgnoreIAMFailures() {
				p.logger.Debug("ignoring failure to enable API", "api", api, "stderr", res.ErrorText())
				continue
			}
			return Outcome{}, apperrors.ErrToolInvocation(api,
				fmt.Sprintf("Failed to enable API: %s. %s", api, res.ErrorText()), nil)
		}
		p.logger.Debug("enabled API", "api", api)
		enabled = append(enabled, api)
	}

	list := strings.Join(enabled, ", ")
	if list == "" {
		list = "none"
	}
	return created(fmt.Sprintf("%s in: %s", list, p.project())), nil
}

// CreateManagerRole creates the manager custom role, in the organization when
// one is configured and in the project otherwise.
func (p *Provisioner) CreateManagerRole(ctx context.Context) (Outcome, error) {
	names := p.deploy.Names()
	return p.createRole(ctx, gcloud.RoleSpec{
		ID:          names.ManagerRoleID,
		Scope:       p.scope(p.deploy.HasOrg()),
		Description: deployment.ManagerRoleDescription,
		Title:       names.ManagerRoleTitle,
		Permissions: p.catalog.Manager.Permissions,
	})
}

// CreateExtensionRole creates the cloud extension custom role in the project.
func (p *Provisioner) CreateExtensionRole(ctx context.Context) (Outcome, error) {
	names := p.deploy.Names()
	return p.createRole(ctx, gcloud.RoleSpec{
		ID:          names.ExtensionRoleID,
		Scope:       p.project(),
		Description: deployment.ExtensionRoleDescription,
		Title:       names.ExtensionRoleTitle,
		Permissions: p.catalog.CloudExtension.Permissions,
	})
}

func (p *Provisioner) createRole(ctx context.Context, role gcloud.RoleSpec) (Outcome, error) {
	descriptor := fmt.Sprintf("%s in: %s", role.ID, role.Scope)

	res, err := p.run(ctx, descriptor, gcloud.CreateRoleArgs(role))
	if err != nil {
		return Outcome{}, err
	}
	if res.Failed() {
		if gcloud.IsAlreadyExists(res.ErrorText()) {
			p.logger.Debug("role already exists", "role", role.ID, "scope", role.Scope.String())
			return existed(descriptor), nil
		}
		return Outcome{}, apperrors.ErrToolInvocation(descriptor, res.ErrorText(), nil)
	}

	p.logger.Debug("created role", "role", role.ID, "scope", role.Scope.String())
	return created(descriptor), nil
}

// CreateManagerServiceAccount creates the manager service account, binds its
// roles, and grants it the token creator role on itself.
//
// The self grant runs even when the account already existed, since an older
// account may lack it. A failed grant is fatal and wins over AlreadyExists.
func (p *Provisioner) CreateManagerServiceAccount(ctx context.Context) (Outcome, error) {
	names := p.deploy.Names()

	outcome, err := p.createServiceAccount(ctx,
		names.ManagerServiceAccountID,
		names.ManagerServiceAccountName,
		names.ManagerRoleID,
		p.catalog.Manager.Roles,
		p.deploy.HasOrg(),
	)
	if err != nil {
		return Outcome{}, err
	}

	if err := p.grantSelfImpersonation(ctx, p.deploy.FullServiceAccountID(names.ManagerServiceAccountID)); err != nil {
		return Outcome{}, err
	}

	return outcome, nil
}

// CreateExtensionServiceAccount creates the cloud extension service account
// and binds its roles in the project.
func (p *Provisioner) CreateExtensionServiceAccount(ctx context.Context) (Outcome, error) {
	names := p.deploy.Names()

	return p.createServiceAccount(ctx,
		names.ExtensionServiceAccountID,
		names.ExtensionServiceAccountName,
		names.ExtensionRoleID,
		p.catalog.CloudExtension.Roles,
		false,
	)
}

// createServiceAccount creates the account, then binds roles plus the
// deployment's custom role roleID at the project or organization.
// AlreadyExists from the create step is returned only after every binding
// succeeded.
func (p *Provisioner) createServiceAccount(ctx context.Context, saID, saName, roleID string, roles []string, orgScoped bool) (Outcome, error) {
	fullID := p.deploy.FullServiceAccountID(saID)

	outcome, err := p.createAccount(ctx, saID, saName)
	if err != nil {
		return Outcome{}, err
	}

	scope := p.scope(orgScoped)
	bindings := make([]string, 0, len(roles)+1)
	bindings = append(bindings, roles...)
	bindings = append(bindings, scope.CustomRole(roleID))

	if err := p.bindRoles(ctx, scope, fullID, bindings); err != nil {
		return Outcome{}, err
	}

	return outcome, nil
}

func (p *Provisioner) createAccount(ctx context.Context, saID, saName string) (Outcome, error) {
	project := p.project()
	descriptor := fmt.Sprintf("%s in: %s", saID, project)

	res, err := p.run(ctx, descriptor, gcloud.CreateServiceAccountArgs(saID, saName, project.ID))
	if err != nil {
		return Outcome{}, err
	}
	if res.Failed() {
		if gcloud.IsAlreadyExists(res.ErrorText()) {
			p.logger.Debug("service account already exists", "service_account", saID)
			return existed(descriptor), nil
		}
		return Outcome{}, apperrors.ErrToolInvocation(descriptor, res.ErrorText(), nil)
	}

	p.logger.Debug("created service account", "service_account", saID)
	return created(p.deploy.FullServiceAccountID(saID)), nil
}

// bindRoles adds one policy binding per role. The first failure is fatal.
func (p *Provisioner) bindRoles(ctx context.Context, scope gcloud.Scope, serviceAccount string, roles []string) error {
	for _, role := range roles {
		res, err := p.run(ctx, serviceAccount, gcloud.AddPolicyBindingArgs(scope, serviceAccount, role))
		if err != nil {
			return err
		}
		if res.Failed() {
			return apperrors.ErrPolicyBinding(serviceAccount, res.ErrorText(), nil)
		}
		p.logger.Debug("bound role", "service_account", serviceAccount, "role", role, "scope", scope.String())
	}
	return nil
}

func (p *Provisioner) grantSelfImpersonation(ctx context.Context, serviceAccount string) error {
	res, err := p.run(ctx, serviceAccount, gcloud.SelfImpersonationArgs(serviceAccount, p.deploy.ProjectID()))
	if err != nil {
		return err
	}
	if res.Failed() {
		return apperrors.ErrPolicyBinding(serviceAccount, res.ErrorText(), nil)
	}
	p.logger.Debug("granted self impersonation", "service_account", serviceAccount)
	return nil
}
