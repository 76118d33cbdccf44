package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvisionError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ProvisionError
		expected string
	}{
		{
			name:     "error with cause",
			err:      ErrToolInvocation("velos_manager_abc1", "gcloud failed", errors.New("exec: not found")),
			expected: "gcloud failed: exec: not found",
		},
		{
			name:     "error without cause",
			err:      ErrPolicyBinding("", "permission denied", nil),
			expected: "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestProvisionError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrValidation("bad input", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestProvisionError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "same kind matches",
			err:      ErrPolicyBinding("a", "one", nil),
			target:   ErrPolicyBindingKind,
			expected: true,
		},
		{
			name:     "different kind does not match",
			err:      ErrToolInvocation("a", "one", nil),
			target:   ErrPolicyBindingKind,
			expected: false,
		},
		{
			name:     "wrapped error matches",
			err:      fmt.Errorf("step failed: %w", ErrValidation("bad", nil)),
			target:   ErrValidationKind,
			expected: true,
		},
		{
			name:     "plain error does not match",
			err:      errors.New("plain"),
			target:   ErrToolInvocationKind,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestGetKind(t *testing.T) {
	assert.Equal(t, KindToolInvocation, GetKind(fmt.Errorf("wrap: %w", ErrToolInvocation("", "x", nil))))
	assert.Equal(t, Kind(""), GetKind(errors.New("plain")))
	assert.Equal(t, Kind(""), GetKind(nil))
}
