package orchestrator

import (
	"io"

	"github.com/fatih/color"
)

// ConsoleReporter prints one line per step.
type ConsoleReporter struct {
	out    io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// NewConsoleReporter returns a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
}

// Succeeded prints "Created {label}: {descriptor}".
func (r *ConsoleReporter) Succeeded(step Step, descriptor string) {
	r.green.Fprintf(r.out, "%s %s: %s\n", step.Verb, step.Label, descriptor)
}

// Existed prints "{label}: {descriptor} already exists".
func (r *ConsoleReporter) Existed(step Step, descriptor string) {
	r.yellow.Fprintf(r.out, "%s: %s already exists\n", step.Label, descriptor)
}

// Failed prints "Failed creating {label}. {message}".
func (r *ConsoleReporter) Failed(step Step, err error) {
	r.red.Fprintf(r.out, "Failed %s %s. %v\n", step.Action, step.Label, err)
}
