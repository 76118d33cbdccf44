package deployment

// Base strings every resource name is derived from.
const (
	ManagerRoleIDBase             = "velos_manager"
	ManagerRoleTitleBase          = "Velostrata Manager"
	ManagerRoleDescription        = "Velostrata Manager"
	ManagerServiceAccountIDBase   = "velos-manager"
	ManagerServiceAccountNameBase = "Velostrata Manager"

	ExtensionRoleIDBase             = "velos_ce"
	ExtensionRoleTitleBase          = "Velostrata Storage Access"
	ExtensionRoleDescription        = "Velostrata Storage Access"
	ExtensionServiceAccountIDBase   = "velos-cloud-extension"
	ExtensionServiceAccountNameBase = "Velostrata Cloud Extension"
)

// ResourceNames are the identifiers of every object provisioned for a deployment.
type ResourceNames struct {
	ManagerRoleID             string
	ManagerRoleTitle          string
	ManagerServiceAccountID   string
	ManagerServiceAccountName string

	ExtensionRoleID             string
	ExtensionRoleTitle          string
	ExtensionServiceAccountID   string
	ExtensionServiceAccountName string
}

// NamesFor derives the resource names for a deployment name.
// Role ids join with "_", service account ids with "-", and human readable
// names with a space.
func NamesFor(name string) ResourceNames {
	return ResourceNames{
		ManagerRoleID:             ManagerRoleIDBase + "_" + name,
		ManagerRoleTitle:          ManagerRoleTitleBase + " " + name,
		ManagerServiceAccountID:   ManagerServiceAccountIDBase + "-" + name,
		ManagerServiceAccountName: ManagerServiceAccountNameBase + " " + name,

		ExtensionRoleID:             ExtensionRoleIDBase + "_" + name,
		ExtensionRoleTitle:          ExtensionRoleTitleBase + " " + name,
		ExtensionServiceAccountID:   ExtensionServiceAccountIDBase + "-" + name,
		ExtensionServiceAccountName: ExtensionServiceAccountNameBase + " " + name,
	}
}
