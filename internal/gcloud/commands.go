package gcloud

import "strings"

// Role stages accepted by gcloud iam roles create.
const (
	StageGA = "GA"
)

// TokenCreatorRole lets a member mint access tokens for a service account.
const TokenCreatorRole = "roles/iam.serviceAccountTokenCreator"

// RoleSpec describes a custom role to create.
type RoleSpec struct {
	ID          string
	Scope       Scope
	Description string
	Title       string
	Permissions []string
}

// EnableServiceArgs enables api in project.
func EnableServiceArgs(api, project string) []string {
	return []string{"services", "enable", api, "--project", project}
}

// CreateRoleArgs creates a custom role at GA stage.
func CreateRoleArgs(role RoleSpec) []string {
	return []string{
		"iam", "roles", "create", "-q", role.ID,
		role.Scope.Flag(), role.Scope.ID,
		"--description", role.Description,
		"--stage", StageGA,
		"--title", role.Title,
		"--permissions", strings.Join(role.Permissions, ","),
	}
}

// CreateServiceAccountArgs creates service account id in project.
func CreateServiceAccountArgs(id, displayName, project string) []string {
	return []string{
		"iam", "service-accounts", "create", id, "-q",
		"--display-name", displayName,
		"--project", project,
	}
}

// AddPolicyBindingArgs binds role to a service account on the scope's policy.
func AddPolicyBindingArgs(scope Scope, serviceAccount, role string) []string {
	return []string{
		scope.Collection(), "add-iam-policy-binding", scope.ID,
		"--member=serviceAccount:" + serviceAccount,
		"--role=" + role,
	}
}

// SelfImpersonationArgs grants a service account the token creator role on itself.
func SelfImpersonationArgs(serviceAccount, project string) []string {
	return []string{
		"iam", "service-accounts", "add-iam-policy-binding", serviceAccount,
		"--member=serviceAccount:" + serviceAccount,
		"--role=" + TokenCreatorRole,
		"--project", project,
		"-q",
	}
}

// VersionArgs prints the installed gcloud version.
func VersionArgs() []string {
	return []string{"version"}
}

// ActiveAccountArgs prints the account gcloud is authenticated as.
func ActiveAccountArgs() []string {
	return []string{"config", "get-value", "account"}
}
