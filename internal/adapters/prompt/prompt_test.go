package prompt_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/prompt"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTerminal_Ask(t *testing.T) {
	Convey("Given a terminal with scripted input", t, func() {
		var out bytes.Buffer
		term := prompt.NewTerminal(strings.NewReader("  sk_live_1  \nlast"), &out)
		ctx := context.Background()

		Convey("When asking twice", func() {
			first, err1 := term.Ask(ctx, "Stripe Secret Key: ")
			second, err2 := term.Ask(ctx, "Heroku app name: ")
			third, err3 := term.Ask(ctx, "More: ")

			Convey("Then answers should be trimmed and EOF should read as empty", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(first, ShouldEqual, "sk_live_1")
				So(second, ShouldEqual, "last")
				So(third, ShouldBeEmpty)
				So(out.String(), ShouldEqual, "Stripe Secret Key: Heroku app name: More: ")
			})
		})
	})

	Convey("Given input that never arrives", t, func() {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		term := prompt.NewTerminal(pr, io.Discard)

		Convey("When the context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err := term.Ask(ctx, "? ")

			Convey("Then Ask should return the context error", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}

func TestTerminal_Confirm(t *testing.T) {
	Convey("Given yes/no answers", t, func() {
		term := prompt.NewTerminal(strings.NewReader("y\nYES\nn\n\nyep\n"), io.Discard)
		ctx := context.Background()

		want := []bool{true, true, false, false, false}
		for _, w := range want {
			got, err := term.Confirm(ctx, "Set up Stripe products? (y/N): ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, w)
		}
	})
}

func TestTerminal_Say(t *testing.T) {
	Convey("Given a terminal", t, func() {
		var out bytes.Buffer
		term := prompt.NewTerminal(strings.NewReader(""), &out)

		term.Say("Live URL: %s\n", "https://optionscope.vercel.app")

		So(out.String(), ShouldEqual, "Live URL: https://optionscope.vercel.app\n")
	})
}
