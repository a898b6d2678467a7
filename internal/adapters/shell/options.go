package shell

import (
	"io"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

// Option applies a configuration option to the ExecRunner.
type Option func(*ExecRunner)

// WithDir sets the default working directory.
func WithDir(dir string) Option {
	return func(r *ExecRunner) {
		r.dir = dir
	}
}

// WithTimeout bounds each command.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithTerminal sets the streams interactive commands are attached to.
func WithTerminal(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		if stdin != nil {
			r.stdin = stdin
		}
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *ExecRunner) {
		if l != nil {
			r.logger = l
		}
	}
}
