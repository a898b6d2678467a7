// Package prompt talks to the operator on the terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Prompter asks the operator questions and prints user-facing text.
type Prompter interface {
	// Ask prints label and returns the trimmed answer. EOF yields "".
	Ask(ctx context.Context, label string) (string, error)
	// Confirm asks a yes/no question; only "y" or "yes" count as yes.
	Confirm(ctx context.Context, label string) (bool, error)
	// Say prints formatted text.
	Say(format string, args ...any)
}

// Terminal implements Prompter over a reader and writer.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer

	// pending is a read left running by a canceled Ask; the next Ask picks it up.
	pending chan answer
}

// NewTerminal returns a prompter reading in and writing out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Stdio returns a prompter on the process's stdin/stdout.
func Stdio() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout)
}

type answer struct {
	line string
	err  error
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.out, label); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	if t.pending == nil {
		ch := make(chan answer, 1)
		go func() {
			line, err := t.in.ReadString('\n')
			ch <- answer{line: line, err: err}
		}()
		t.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-t.pending:
		t.pending = nil
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", a.err)
		}
		return strings.TrimSpace(a.line), nil
	}
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, label string) (bool, error) {
	a, err := t.Ask(ctx, label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(a) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Say implements Prompter.
func (t *Terminal) Say(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, format, args...)
}
