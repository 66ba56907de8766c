// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner
// and ports.LookPather.
type CommandRunner struct {
	mu       sync.RWMutex
	results  map[string]ports.CommandResult
	errors   map[string]error
	queues   map[string][]ports.CommandResult
	onPath   map[string]string
	fallback *ports.CommandResult
	calls    []ports.CommandCall
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		queues:  make(map[string][]ports.CommandResult),
		onPath:  make(map[string]string),
		calls:   make([]ports.CommandCall, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// QueueResults registers a sequence of results returned on successive
// invocations of the same command. Used for retry and polling tests.
func (m *CommandRunner) QueueResults(command string, args []string, results ...ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := buildKey(command, args)
	m.queues[key] = append(m.queues[key], results...)
}

// SetFallback makes unregistered commands return the given result
// instead of an error.
func (m *CommandRunner) SetFallback(result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &result
}

// PutOnPath registers an executable as resolvable via LookPath.
func (m *CommandRunner) PutOnPath(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPath[name] = path
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, ports.CommandCall{
		Command: command,
		Args:    args,
	})

	key := buildKey(command, args)

	if queue, ok := m.queues[key]; ok && len(queue) > 0 {
		result := queue[0]
		m.queues[key] = queue[1:]
		return result, nil
	}

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}

	if result, ok := m.results[key]; ok {
		return result, nil
	}

	if m.fallback != nil {
		return *m.fallback, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// LookPath resolves executables registered with PutOnPath.
func (m *CommandRunner) LookPath(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.onPath[name]
	return path, ok
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many times the exact command was invoked.
func (m *CommandRunner) CallCount(command string, args ...string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, call := range m.calls {
		if call.Command == command && buildKey(call.Command, call.Args) == buildKey(command, args) {
			count++
		}
	}
	return count
}

func buildKey(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// Ensure CommandRunner implements the command ports.
var (
	_ ports.CommandRunner = (*CommandRunner)(nil)
	_ ports.LookPather    = (*CommandRunner)(nil)
)
