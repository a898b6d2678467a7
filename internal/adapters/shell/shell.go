// Package shell runs the external CLIs (vercel, heroku, railway, npm, git) the deploy drivers rely on.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
)

const defaultTimeout = 15 * time.Minute

// Command describes one external process.
type Command struct {
	Name string
	Args []string
	// Stdin is fed to the process when non-empty.
	Stdin string
	// Dir overrides the runner's working directory.
	Dir string
	// Interactive attaches the process to the terminal instead of capturing output.
	Interactive bool
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the captured outcome of a process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd. A non-zero exit returns ErrCommandFailed together with the captured Result.
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath reports ErrNotFound when name is not on PATH.
	LookPath(name string) error
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	dir     string
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  logger.Logger
}

// NewExecRunner creates a runner with configuration options.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		timeout: defaultTimeout,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("shell")
	}
	return r
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- commands are built from fixed driver tables
	cmd.Dir = r.dir
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var stdout, stderr bytes.Buffer
	switch {
	case c.Interactive:
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	r.logger.Debug(ctx, "running command", logger.String("cmd", c.String()), logger.String("dir", cmd.Dir))
	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: cmd.ProcessState.ExitCode()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		metrics.RecordCommand(c.Name, "ok")
		r.logger.Debug(ctx, "command finished", logger.String("cmd", c.Name), logger.Duration("took", time.Since(start)))
		return res, nil
	case errors.As(err, &exitErr):
		metrics.RecordCommand(c.Name, "failed")
		return res, &CommandError{Command: c.String(), ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(res.Stderr)}
	case errors.Is(err, exec.ErrNotFound):
		metrics.RecordCommand(c.Name, "error")
		return res, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	default:
		metrics.RecordCommand(c.Name, "error")
		return res, fmt.Errorf("run %s: %w", c.String(), err)
	}
}
