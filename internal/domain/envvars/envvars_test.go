package envvars_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	. "github.com/smartystreets/goconvey/convey"
)

// scriptedAsker answers prompts in order and records every label it was asked.
type scriptedAsker struct {
	answers []string
	asked   []string
	said    []string
	failAt  int
}

func (a *scriptedAsker) Ask(_ context.Context, label string) (string, error) {
	a.asked = append(a.asked, label)
	if a.failAt > 0 && len(a.asked) == a.failAt {
		return "", errors.New("stdin closed")
	}
	if len(a.answers) == 0 {
		return "", nil
	}
	v := a.answers[0]
	a.answers = a.answers[1:]
	return v, nil
}

func (a *scriptedAsker) Say(format string, args ...any) {
	a.said = append(a.said, fmt.Sprintf(format, args...))
}

func TestSet(t *testing.T) {
	Convey("Given an ordered set", t, func() {
		s := envvars.NewSet()
		s.Set("A", "1")
		s.Set("B", "")
		s.Set("C", "your-key-here")
		s.Set("A", "2")

		Convey("Then replacing a key should keep its position", func() {
			So(s.Len(), ShouldEqual, 3)
			So(s.All()[0], ShouldResemble, envvars.Var{Key: "A", Value: "2"})
			v, ok := s.Get("A")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "2")
		})

		Convey("Then empty and placeholder values should not be exportable", func() {
			So(s.Exportable("your-key-here"), ShouldResemble, []envvars.Var{{Key: "A", Value: "2"}})
		})

		Convey("Then without a placeholder only empty values should be dropped", func() {
			So(len(s.Exportable("")), ShouldEqual, 2)
		})

		Convey("Then missing keys should report absence", func() {
			_, ok := s.Get("Z")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGenerateSecretKey(t *testing.T) {
	Convey("Given generated secret keys", t, func() {
		a, errA := envvars.GenerateSecretKey()
		b, errB := envvars.GenerateSecretKey()

		Convey("Then they should be 43 URL-safe characters and unique", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(len(a), ShouldEqual, 43)
			So(a, ShouldNotEqual, b)
			So(a, ShouldNotContainSubstring, "+")
			So(a, ShouldNotContainSubstring, "/")
			So(a, ShouldNotContainSubstring, "=")
		})
	})
}

func TestCollect(t *testing.T) {
	Convey("Given an operator answering every prompt", t, func() {
		asker := &scriptedAsker{answers: []string{"pk_live_1", "sk_live_2", "whsec_3", "alpha", ""}}

		set, err := envvars.Collect(context.Background(), asker, envvars.Known{})

		Convey("Then the set should be in the documented order", func() {
			So(err, ShouldBeNil)
			keys := make([]string, 0, set.Len())
			for _, v := range set.All() {
				keys = append(keys, v.Key)
			}
			So(keys, ShouldResemble, []string{
				envvars.FlaskEnv, envvars.SecretKey, envvars.StripePublishableKey,
				envvars.StripeSecretKey, envvars.StripeWebhookSecret, envvars.AlphaVantageAPIKey,
			})
			v, _ := set.Get(envvars.FlaskEnv)
			So(v, ShouldEqual, "production")
			v, _ = set.Get(envvars.StripeWebhookSecret)
			So(v, ShouldEqual, "whsec_3")
		})

		Convey("And the skipped IEX key should be absent", func() {
			_, ok := set.Get(envvars.IEXAPIKey)
			So(ok, ShouldBeFalse)
			So(len(asker.asked), ShouldEqual, 5)
		})
	})

	Convey("Given values already known from configuration", t, func() {
		asker := &scriptedAsker{answers: []string{"whsec_prompted"}}
		known := envvars.Known{
			StripePublishableKey: "pk_cfg",
			StripeSecretKey:      "sk_cfg",
			AlphaVantageAPIKey:   "alpha_cfg",
			IEXAPIKey:            "iex_cfg",
		}

		set, err := envvars.Collect(context.Background(), asker, known)

		Convey("Then only the missing value should be prompted for", func() {
			So(err, ShouldBeNil)
			So(asker.asked, ShouldResemble, []string{"Stripe Webhook Secret (whsec_...): "})
			v, _ := set.Get(envvars.StripeSecretKey)
			So(v, ShouldEqual, "sk_cfg")
			v, _ = set.Get(envvars.IEXAPIKey)
			So(v, ShouldEqual, "iex_cfg")
		})
	})

	Convey("Given a prompt that fails", t, func() {
		asker := &scriptedAsker{failAt: 2}

		_, err := envvars.Collect(context.Background(), asker, envvars.Known{})

		Convey("Then the error should name the prompt", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Stripe Secret Key")
		})
	})
}
