// Package main is the entry point for optionscope-deploy, which ships the
// OptionScope web app to a hosting platform and sets up its Stripe catalog.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	_ = logger.Sync()
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run executes one command line and writes the metrics snapshot when configured.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	c := newCLI(in, out)
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	c.writeMetrics(ctx)
	return err
}
