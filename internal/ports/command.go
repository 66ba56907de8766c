// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"fmt"
	"strings"
)

// CommandResult represents the result of executing an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandError reports a command that ran but exited nonzero. It
// carries the exit status so an aborted run can exit with it.
type CommandError struct {
	Command string
	Code    int
	Stderr  string
}

// Error returns the command, its exit status, and any stderr output.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit status %d", e.Command, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// ExitCode returns the command's exit status.
func (e *CommandError) ExitCode() int {
	return e.Code
}

// NewCommandError builds a CommandError from a finished command's
// result.
func NewCommandError(command string, result CommandResult) *CommandError {
	return &CommandError{Command: command, Code: result.ExitCode, Stderr: result.Stderr}
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes external commands. Every installer, package
// manager, and preference-writing tool is reached through this single
// interface; the orchestrator never shells out directly.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// LookPather reports whether an executable is resolvable on the search
// path. Used by idempotency probes and the post-run validator.
type LookPather interface {
	LookPath(name string) (string, bool)
}
