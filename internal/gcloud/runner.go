// Package gcloud is the only place velos-iam touches the outside world.
//
// It runs the gcloud command line tool with a fully formed argument list and
// hands back the exit status and captured output. A non-zero exit is a normal
// result, not an error; callers decide what it means.
package gcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultPath is the executable used when none is configured.
const DefaultPath = "gcloud"

// Result is the outcome of one gcloud invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Failed reports whether the invocation exited non-zero.
func (r *Result) Failed() bool {
	return r.ExitCode != 0
}

// ErrorText returns stderr as a trimmed string.
func (r *Result) ErrorText() string {
	return strings.TrimSpace(string(r.Stderr))
}

// Runner invokes gcloud.
//
// Run returns an error only when the process could not be started or waited
// on. A non-zero exit code is reported through Result.
type Runner interface {
	Run(ctx context.Context, args ...string) (*Result, error)
}

// CLI runs the real gcloud executable.
type CLI struct {
	path   string
	logger *slog.Logger
}

// NewCLI returns a Runner for the executable at path.
func NewCLI(path string, logger *slog.Logger) *CLI {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{path: path, logger: logger}
}

// Run executes gcloud with args and captures its output.
func (c *CLI) Run(ctx context.Context, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running gcloud", "path", c.path, "args", args)

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		c.logger.Debug("gcloud exited non-zero", "args", args, "exit_code", result.ExitCode, "stderr", result.ErrorText())
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run %s %s: %w", c.path, strings.Join(args, " "), err)
	}

	c.logger.Debug("gcloud succeeded", "args", args)
	return result, nil
}
