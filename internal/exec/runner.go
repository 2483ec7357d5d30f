// Package exec provides a testable command execution abstraction.
// git and the browser opener go through a Runner so tests can script them.
package exec

import (
	"bytes"
	"context"
	osexec "os/exec"
	"strings"
	"sync"
)

// Runner defines the interface for executing external commands.
// Inject this instead of calling exec.Command directly.
type Runner interface {
	// Run executes a command and returns combined stdout/stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// RunSeparate executes and returns stdout and stderr separately.
	RunSeparate(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

	// Start begins a command without waiting for completion.
	Start(ctx context.Context, name string, args ...string) (*osexec.Cmd, error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct{}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) command(ctx context.Context, name string, args ...string) *osexec.Cmd {
	return osexec.CommandContext(ctx, name, args...)
}

// Run executes a command and returns combined output.
func (r *OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.command(ctx, name, args...).CombinedOutput()
}

// RunSeparate executes and returns stdout and stderr separately.
func (r *OSRunner) RunSeparate(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := r.command(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Start begins a command without waiting.
func (r *OSRunner) Start(ctx context.Context, name string, args ...string) (*osexec.Cmd, error) {
	cmd := r.command(ctx, name, args...)
	err := cmd.Start()
	return cmd, err
}

// MockRunner implements Runner for testing.
type MockRunner struct {
	mu sync.Mutex

	// Calls records all command invocations
	Calls []MockCall

	// Responses maps a full command line ("git rev-parse HEAD") or a bare
	// command name to queued responses. The last response is sticky.
	Responses map[string][]MockResponse
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
}

// Line returns the invocation as a single space separated command line.
func (c MockCall) Line() string {
	return CommandLine(c.Name, c.Args...)
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// CommandLine joins a command and its arguments the way MockRunner keys them.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string][]MockResponse),
	}
}

// AddResponse queues a response for a command line or command name.
func (m *MockRunner) AddResponse(key string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[key] = append(m.Responses[key], resp)
}

// Lines returns every recorded invocation as a command line.
func (m *MockRunner) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = c.Line()
	}
	return lines
}

func (m *MockRunner) record(name string, args []string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args})

	for _, key := range []string{CommandLine(name, args...), name} {
		queue, ok := m.Responses[key]
		if !ok || len(queue) == 0 {
			continue
		}
		resp := queue[0]
		if len(queue) > 1 {
			m.Responses[key] = queue[1:]
		}
		return resp
	}
	return MockResponse{}
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	resp := m.record(name, args)
	out := append(append([]byte{}, resp.Stdout...), resp.Stderr...)
	return out, resp.Err
}

func (m *MockRunner) RunSeparate(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	resp := m.record(name, args)
	return resp.Stdout, resp.Stderr, resp.Err
}

func (m *MockRunner) Start(ctx context.Context, name string, args ...string) (*osexec.Cmd, error) {
	resp := m.record(name, args)
	// Return a dummy cmd that does nothing
	cmd := osexec.Command("true")
	return cmd, resp.Err
}

// Default is the default runner used by helper functions.
var Default Runner = NewOSRunner()
