// Package errors provides the error taxonomy for velos-iam.
//
// Only fatal conditions are errors. A resource that already exists is not an
// error at all; it is reported through provision.Outcome.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal error.
type Kind string

// Predefined error kinds.
const (
	// KindValidation marks malformed input rejected before any provisioning.
	KindValidation Kind = "VALIDATION"
	// KindToolInvocation marks a gcloud call that failed for any reason other
	// than the target already existing.
	KindToolInvocation Kind = "TOOL_INVOCATION"
	// KindPolicyBinding marks a failed role binding or self-impersonation grant.
	KindPolicyBinding Kind = "POLICY_BINDING"
)

// ProvisionError is a fatal error raised while validating input or calling gcloud.
type ProvisionError struct {
	// Kind is the classification used by errors.Is
	Kind Kind
	// Target identifies what was being created, when known
	Target string
	// Message is the user-facing message, usually the captured stderr
	Message string
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ProvisionError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match on Kind.
func (e *ProvisionError) Is(target error) bool {
	if t, ok := target.(*ProvisionError); ok {
		return e.Kind != "" && e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidationKind     = &ProvisionError{Kind: KindValidation}
	ErrToolInvocationKind = &ProvisionError{Kind: KindToolInvocation}
	ErrPolicyBindingKind  = &ProvisionError{Kind: KindPolicyBinding}
)

// ErrValidation creates a validation error.
func ErrValidation(message string, cause error) *ProvisionError {
	return &ProvisionError{Kind: KindValidation, Message: message, Cause: cause}
}

// ErrToolInvocation creates a tool invocation error for target.
func ErrToolInvocation(target, message string, cause error) *ProvisionError {
	return &ProvisionError{Kind: KindToolInvocation, Target: target, Message: message, Cause: cause}
}

// ErrPolicyBinding creates a policy binding error for target.
func ErrPolicyBinding(target, message string, cause error) *ProvisionError {
	return &ProvisionError{Kind: KindPolicyBinding, Target: target, Message: message, Cause: cause}
}

// GetKind extracts the Kind from err, or "" when err is not a ProvisionError.
func GetKind(err error) Kind {
	var pe *ProvisionError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
