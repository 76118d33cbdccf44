package catalog

import (
	"fmt"
	"strings"
)

// ValidationResult collects every problem found in a catalog
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate checks the catalog structure and the format of every entry
func (c *Catalog) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true, Errors: []string{}}

	for _, api := range c.APIs {
		if !strings.HasSuffix(api, ".googleapis.com") {
			result.addError("apis: %q is not a googleapis.com service name", api)
		}
	}

	validateClass(result, "mgmt", c.Manager)
	validateClass(result, "ce", c.CloudExtension)

	return result
}

func validateClass(result *ValidationResult, name string, class Class) {
	if len(class.Permissions) == 0 {
		result.addError("%s.permissions: at least one permission is required", name)
	}
	for _, perm := range class.Permissions {
		if err := validatePermission(perm); err != nil {
			result.addError("%s.permissions: %v", name, err)
		}
	}
	for _, role := range class.Roles {
		if err := validateRole(role); err != nil {
			result.addError("%s.roles: %v", name, err)
		}
	}
}

// validatePermission checks the service.resource.verb format
func validatePermission(perm string) error {
	if strings.Contains(perm, "*") {
		return fmt.Errorf("permission %q: wildcards are not allowed in custom roles", perm)
	}
	parts := strings.Split(perm, ".")
	if len(parts) < 3 {
		return fmt.Errorf("permission %q: expected service.resource.verb", perm)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("permission %q: empty segment", perm)
		}
	}
	return nil
}

// validateRole accepts predefined roles (roles/<id>) and fully qualified
// custom roles (projects/<id>/roles/<id> or organizations/<id>/roles/<id>)
func validateRole(role string) error {
	parts := strings.Split(role, "/")
	switch {
	case len(parts) == 2 && parts[0] == "roles" && parts[1] != "":
		return nil
	case len(parts) == 4 && (parts[0] == "projects" || parts[0] == "organizations") &&
		parts[1] != "" && parts[2] == "roles" && parts[3] != "":
		return nil
	}
	return fmt.Errorf("role %q: expected roles/<id>, projects/<id>/roles/<id> or organizations/<id>/roles/<id>", role)
}
