package gcloud

import (
	"context"
	"strings"
)

// ToolStatus represents whether gcloud is usable
type ToolStatus int

const (
	ToolUnknown ToolStatus = iota
	ToolReady
	ToolMissing
	ToolBroken
)

// Preflight describes the local gcloud installation
type Preflight struct {
	Tool    ToolStatus
	Version string
	Account string
	Detail  string
}

// Status checks that gcloud runs and reports the active account
func Status(ctx context.Context, runner Runner) *Preflight {
	status := &Preflight{}

	res, err := runner.Run(ctx, VersionArgs()...)
	switch {
	case err != nil:
		status.Tool = ToolMissing
		status.Detail = err.Error()
		return status
	case res.Failed():
		status.Tool = ToolBroken
		status.Detail = res.ErrorText()
		return status
	}

	status.Tool = ToolReady
	status.Version = firstLine(string(res.Stdout))

	// No active account is not fatal here; provisioning calls will say so
	res, err = runner.Run(ctx, ActiveAccountArgs()...)
	if err == nil && !res.Failed() {
		status.Account = firstLine(string(res.Stdout))
	}

	return status
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
