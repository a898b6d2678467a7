package shell

import (
	"errors"
	"fmt"
)

// Sentinel kinds for shell errors.
var (
	ErrNotFound      = errors.New("command not found")
	ErrCommandFailed = errors.New("command failed")
)

// CommandError is returned when a process exits non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// Unwrap lets errors.Is match ErrCommandFailed.
func (e *CommandError) Unwrap() error { return ErrCommandFailed }
