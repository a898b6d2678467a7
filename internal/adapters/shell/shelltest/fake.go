// Package shelltest provides a scripted shell.Runner for driver tests.
package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/shell"
)

// Response is returned for every command whose line starts with the registered prefix.
type Response struct {
	Result shell.Result
	Err    error
}

// Runner records commands and answers them from a prefix table.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	missing   map[string]bool
	Commands  []shell.Command
}

// NewRunner returns a runner where every command succeeds with empty output.
func NewRunner() *Runner {
	return &Runner{
		responses: make(map[string]Response),
		missing:   make(map[string]bool),
	}
}

// On scripts the response for commands whose line starts with prefix.
func (r *Runner) On(prefix string, res shell.Result, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[prefix] = Response{Result: res, Err: err}
	return r
}

// Fail makes commands starting with prefix exit with status 1.
func (r *Runner) Fail(prefix, stderr string) *Runner {
	return r.On(prefix, shell.Result{Stderr: stderr, ExitCode: 1},
		&shell.CommandError{Command: prefix, ExitCode: 1, Stderr: stderr})
}

// Missing makes LookPath fail for name.
func (r *Runner) Missing(name string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[name] = true
	return r
}

// LookPath implements shell.Runner.
func (r *Runner) LookPath(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[name] {
		return fmt.Errorf("%w: %s", shell.ErrNotFound, name)
	}
	return nil
}

// Run implements shell.Runner. The longest matching prefix wins.
func (r *Runner) Run(_ context.Context, cmd shell.Command) (shell.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, cmd)

	line := cmd.String()
	best := ""
	for prefix := range r.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return shell.Result{}, nil
	}
	resp := r.responses[best]
	return resp.Result, resp.Err
}

// Lines returns every recorded command line in order.
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.String()
	}
	return out
}
