// Package orchestrator runs the provisioning steps in their fixed order.
//
// Each step either creates its object, finds it already there, or fails.
// The first two are reported and the run continues; a failure is reported and
// ends the run. Completed steps are never rolled back.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/provision"
)

// Labels of the provisioning steps, as shown on the console.
const (
	LabelAPIs                    = "Google APIs"
	LabelManagerRole             = "Velostrata Manager role"
	LabelExtensionRole           = "Velostrata Storage Access role"
	LabelManagerServiceAccount   = "Velostrata Manager service account"
	LabelExtensionServiceAccount = "Velostrata Cloud Extension service account"
)

// Provisioner is the set of operations the orchestrator sequences.
type Provisioner interface {
	EnableAPIs(ctx context.Context) (provision.Outcome, error)
	CreateManagerRole(ctx context.Context) (provision.Outcome, error)
	CreateExtensionRole(ctx context.Context) (provision.Outcome, error)
	CreateManagerServiceAccount(ctx context.Context) (provision.Outcome, error)
	CreateExtensionServiceAccount(ctx context.Context) (provision.Outcome, error)
}

// Step is one provisioning operation and how to talk about it.
type Step struct {
	Label string
	// Verb is the past tense used on success, e.g. "Created"
	Verb string
	// Action is the gerund used on failure, e.g. "creating"
	Action string
	Run    func(ctx context.Context) (provision.Outcome, error)
}

// Reporter receives one call per executed step.
type Reporter interface {
	Succeeded(step Step, descriptor string)
	Existed(step Step, descriptor string)
	Failed(step Step, err error)
}

// StepError is returned by Run when a step fails.
type StepError struct {
	Label string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("provisioning aborted at %s: %v", e.Label, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Orchestrator runs Steps against a Reporter.
type Orchestrator struct {
	steps    []Step
	reporter Reporter
	logger   *slog.Logger
}

// New returns an Orchestrator for the standard step sequence:
// enable APIs, manager role, extension role, manager service account,
// extension service account.
func New(p Provisioner, reporter Reporter, logger *slog.Logger) *Orchestrator {
	return NewWithSteps(Steps(p), reporter, logger)
}

// NewWithSteps returns an Orchestrator for an explicit step list.
func NewWithSteps(steps []Step, reporter Reporter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{steps: steps, reporter: reporter, logger: logger}
}

// Steps returns the standard step sequence for p.
func Steps(p Provisioner) []Step {
	return []Step{
		{Label: LabelAPIs, Verb: "Enabled", Action: "enabling", Run: p.EnableAPIs},
		create(LabelManagerRole, p.CreateManagerRole),
		create(LabelExtensionRole, p.CreateExtensionRole),
		create(LabelManagerServiceAccount, p.CreateManagerServiceAccount),
		create(LabelExtensionServiceAccount, p.CreateExtensionServiceAccount),
	}
}

func create(label string, run func(ctx context.Context) (provision.Outcome, error)) Step {
	return Step{Label: label, Verb: "Created", Action: "creating", Run: run}
}

// Run executes every step in order and stops at the first failure.
// It returns nil when every step either created its object or found it
// already present.
func (o *Orchestrator) Run(ctx context.Context) error {
	for i, step := range o.steps {
		o.logger.Debug("running step", "step", i+1, "total", len(o.steps), "label", step.Label)

		outcome, err := step.Run(ctx)
		if err != nil {
			o.reporter.Failed(step, err)
			return &StepError{Label: step.Label, Err: err}
		}
		o.logger.Debug("step finished", "label", step.Label, "status", outcome.Status.String())

		if outcome.Recoverable() {
			o.reporter.Existed(step, outcome.Descriptor)
			continue
		}
		o.reporter.Succeeded(step, outcome.Descriptor)
	}
	return nil
}
