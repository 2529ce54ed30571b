package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes a subprocess invocation.
type Cmd struct {
	Name  string
	Args  []string
	Stdin string   // written to the process when non-empty
	Env   []string // KEY=VALUE pairs appended to the parent environment
}

// Result holds the outcome of a finished subprocess.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the process exited with status zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner isolates subprocess execution so workflow code can be tested
// against recording fakes.
type Runner interface {
	// Run executes a command, waits for it, and returns its exit code and
	// captured output. A non-zero exit is not an error; err is reserved
	// for failures to start or wait on the process, or a cancelled ctx.
	Run(ctx context.Context, cmd Cmd) (Result, error)

	// Start launches a command detached from the caller. The process is
	// never waited on and its output is discarded.
	Start(name string, args ...string) error

	// LookPath reports the full path of an executable, or an error when it
	// is not installed.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (e *ExecRunner) Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Process ran and failed; the exit code carries the outcome.
			return res, nil
		}
		res.ExitCode = -1
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, err
	}
	return res, nil
}

func (e *ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (e *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
