package shell_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/shell"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestExecRunner_Run(t *testing.T) {
	Convey("Given an exec runner", t, func() {
		r := shell.NewExecRunner(shell.WithTimeout(5 * time.Second))
		ctx := context.Background()

		Convey("When the command succeeds", func() {
			res, err := r.Run(ctx, shell.Command{Name: "sh", Args: []string{"-c", "echo https://optionscope.vercel.app"}})

			Convey("Then stdout should be captured", func() {
				So(err, ShouldBeNil)
				So(res.ExitCode, ShouldEqual, 0)
				So(strings.TrimSpace(res.Stdout), ShouldEqual, "https://optionscope.vercel.app")
			})
		})

		Convey("When stdin is provided", func() {
			res, err := r.Run(ctx, shell.Command{Name: "cat", Stdin: "sk_live_secret"})

			Convey("Then the process should read it", func() {
				So(err, ShouldBeNil)
				So(res.Stdout, ShouldEqual, "sk_live_secret")
			})
		})

		Convey("When the command exits non-zero", func() {
			res, err := r.Run(ctx, shell.Command{Name: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}})

			Convey("Then a CommandError should carry exit code and stderr", func() {
				So(errors.Is(err, shell.ErrCommandFailed), ShouldBeTrue)
				var cmdErr *shell.CommandError
				So(errors.As(err, &cmdErr), ShouldBeTrue)
				So(cmdErr.ExitCode, ShouldEqual, 3)
				So(cmdErr.Stderr, ShouldEqual, "nope")
				So(res.ExitCode, ShouldEqual, 3)
				So(err.Error(), ShouldContainSubstring, "sh -c")
			})
		})

		Convey("When the binary does not exist", func() {
			_, err := r.Run(ctx, shell.Command{Name: "optionscope-no-such-binary"})

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, shell.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the working directory is set per command", func() {
			dir := t.TempDir()
			res, err := r.Run(ctx, shell.Command{Name: "pwd", Dir: dir})

			Convey("Then the process should run there", func() {
				So(err, ShouldBeNil)
				So(strings.TrimSpace(res.Stdout), ShouldEndWith, dir[strings.LastIndex(dir, "/"):])
			})
		})
	})

	Convey("Given a runner with a short timeout", t, func() {
		r := shell.NewExecRunner(shell.WithTimeout(100 * time.Millisecond))

		Convey("When the command outlives it", func() {
			_, err := r.Run(context.Background(), shell.Command{Name: "sleep", Args: []string{"5"}})

			Convey("Then the process should be killed", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given an interactive command", t, func() {
		var out bytes.Buffer
		r := shell.NewExecRunner(shell.WithTerminal(strings.NewReader("typed\n"), &out, &out))

		Convey("When it runs", func() {
			res, err := r.Run(context.Background(), shell.Command{Name: "cat", Interactive: true})

			Convey("Then it should use the terminal streams instead of capturing", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "typed\n")
				So(res.Stdout, ShouldBeEmpty)
			})
		})
	})
}

func TestExecRunner_LookPath(t *testing.T) {
	Convey("Given an exec runner", t, func() {
		r := shell.NewExecRunner()

		So(r.LookPath("sh"), ShouldBeNil)
		So(errors.Is(r.LookPath("optionscope-no-such-binary"), shell.ErrNotFound), ShouldBeTrue)
	})
}
