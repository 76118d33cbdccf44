// Package deployment holds the per-invocation deployment context and the
// resource names derived from it.
//
// A Context is built once from user input, validated, and never mutated.
// Every resource name is a pure function of the deployment name, which is
// what makes repeated runs against the same project converge.
package deployment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/blackwell-systems/velostrata-iam-bootstrap/internal/errors"
)

// NamePattern is the accepted shape of a deployment name.
var NamePattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// NameRule is the human readable form of NamePattern.
const NameRule = "Deployment name can be 1-8 characters long and can only contain lowercase characters and numbers"

// Params is the raw user input a Context is built from.
type Params struct {
	Name              string `validate:"deployment_name"`
	ProjectID         string `validate:"required"`
	OrgID             string `validate:"omitempty,numeric"`
	IgnoreIAMFailures bool
}

// Context is the immutable deployment context for one run.
type Context struct {
	params Params
	names  ResourceNames
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("deployment_name", func(fl validator.FieldLevel) bool {
		return NamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register deployment_name validation: %v", err))
	}
	return v
}

// New validates p and returns the Context for it.
func New(p Params) (*Context, error) {
	if err := validate.Struct(p); err != nil {
		return nil, apperrors.ErrValidation(describe(p, err), err)
	}

	return &Context{
		params: p,
		names:  NamesFor(p.Name),
	}, nil
}

func describe(p Params, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, fmt.Sprintf("invalid deployment name %q: %s", p.Name, NameRule))
		case "ProjectID":
			msgs = append(msgs, "project id is required")
		case "OrgID":
			msgs = append(msgs, fmt.Sprintf("invalid organization id %q: must be numeric", p.OrgID))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}

// Name returns the deployment name.
func (c *Context) Name() string { return c.params.Name }

// ProjectID returns the target project.
func (c *Context) ProjectID() string { return c.params.ProjectID }

// OrgID returns the organization id, or "" when none was given.
func (c *Context) OrgID() string { return c.params.OrgID }

// HasOrg reports whether an organization id was given.
func (c *Context) HasOrg() bool { return c.params.OrgID != "" }

// IgnoreIAMFailures reports whether API enablement failures are ignored.
func (c *Context) IgnoreIAMFailures() bool { return c.params.IgnoreIAMFailures }

// Names returns the derived resource names.
func (c *Context) Names() ResourceNames { return c.names }

// FullServiceAccountID returns the email form of a service account id in the
// context's project.
func (c *Context) FullServiceAccountID(saID string) string {
	return FullServiceAccountID(saID, c.params.ProjectID)
}

// FullServiceAccountID returns {saID}@{projectID}.iam.gserviceaccount.com.
func FullServiceAccountID(saID, projectID string) string {
	return saID + "@" + projectID + ".iam.gserviceaccount.com"
}
