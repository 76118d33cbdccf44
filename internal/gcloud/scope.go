package gcloud

// Level is the resource hierarchy level a role or binding lives at.
type Level int

const (
	ProjectLevel Level = iota
	OrganizationLevel
)

// Scope is a project or organization that roles and bindings attach to.
type Scope struct {
	Level Level
	ID    string
}

// Project returns the scope of project id.
func Project(id string) Scope {
	return Scope{Level: ProjectLevel, ID: id}
}

// Organization returns the scope of organization id.
func Organization(id string) Scope {
	return Scope{Level: OrganizationLevel, ID: id}
}

// Flag is the gcloud parent flag for the scope.
func (s Scope) Flag() string {
	if s.Level == OrganizationLevel {
		return "--organization"
	}
	return "--project"
}

// Collection is the gcloud command group and resource collection name.
func (s Scope) Collection() string {
	if s.Level == OrganizationLevel {
		return "organizations"
	}
	return "projects"
}

// String describes the scope, e.g. "project my-project".
func (s Scope) String() string {
	if s.Level == OrganizationLevel {
		return "organization " + s.ID
	}
	return "project " + s.ID
}

// CustomRole returns the full resource name of a custom role in the scope.
func (s Scope) CustomRole(roleID string) string {
	return s.Collection() + "/" + s.ID + "/roles/" + roleID
}
