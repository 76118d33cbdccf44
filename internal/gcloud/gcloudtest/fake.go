// Package gcloudtest provides a scripted gcloud runner for tests.
package gcloudtest

import (
	"context"
	"strings"
	"sync"

	"github.com/blackwell-systems/velostrata-iam-bootstrap/internal/gcloud"
)

// Response is a scripted reply for FakeRunner.
type Response struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Rule answers every invocation whose joined argument list contains Match.
type Rule struct {
	Match    string
	Response Response
}

// FakeRunner is a scripted gcloud.Runner that records every call.
// Rules are checked in order; unmatched calls succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	Rules []Rule
	Calls [][]string
}

// NewFakeRunner returns a FakeRunner answering with rules.
func NewFakeRunner(rules ...Rule) *FakeRunner {
	return &FakeRunner{Rules: rules}
}

// Run records args and returns the first matching scripted response.
func (f *FakeRunner) Run(_ context.Context, args ...string) (*gcloud.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, append([]string(nil), args...))

	joined := strings.Join(args, " ")
	for _, rule := range f.Rules {
		if strings.Contains(joined, rule.Match) {
			if rule.Response.Err != nil {
				return nil, rule.Response.Err
			}
			return &gcloud.Result{
				ExitCode: rule.Response.ExitCode,
				Stdout:   []byte(rule.Response.Stdout),
				Stderr:   []byte(rule.Response.Stderr),
			}, nil
		}
	}
	return &gcloud.Result{}, nil
}

// CallsContaining returns the recorded calls whose joined arguments contain s.
func (f *FakeRunner) CallsContaining(s string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [][]string
	for _, call := range f.Calls {
		if strings.Contains(strings.Join(call, " "), s) {
			out = append(out, call)
		}
	}
	return out
}

// Fail returns a Rule that exits 1 with stderr for calls containing match.
func Fail(match, stderr string) Rule {
	return Rule{Match: match, Response: Response{ExitCode: 1, Stderr: stderr}}
}

// Reply returns a Rule that succeeds with stdout for calls containing match.
func Reply(match, stdout string) Rule {
	return Rule{Match: match, Response: Response{Stdout: stdout}}
}
