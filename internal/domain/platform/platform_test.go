package platform_test

import (
	"errors"
	"testing"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given platform names from the command line", t, func() {
		Convey("When the name is known in any case", func() {
			n, err := platform.Parse("  HeRoKu ")

			Convey("Then it should resolve", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, platform.Heroku)
			})
		})

		Convey("When the name is unknown", func() {
			_, err := platform.Parse("netlify")

			Convey("Then it should list the supported platforms", func() {
				So(errors.Is(err, platform.ErrUnsupported), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "vercel, heroku, railway, render")
			})
		})
	})
}

func TestFromMenuChoice(t *testing.T) {
	Convey("Given menu answers", t, func() {
		So(platform.FromMenuChoice("1"), ShouldEqual, platform.Vercel)
		So(platform.FromMenuChoice(" 2 "), ShouldEqual, platform.Heroku)
		So(platform.FromMenuChoice("3"), ShouldEqual, platform.Railway)
		So(platform.FromMenuChoice("4"), ShouldEqual, platform.Render)

		Convey("Then anything else should fall back to Vercel", func() {
			So(platform.FromMenuChoice(""), ShouldEqual, platform.Vercel)
			So(platform.FromMenuChoice("5"), ShouldEqual, platform.Vercel)
			So(platform.FromMenuChoice("render"), ShouldEqual, platform.Vercel)
		})
	})
}

func TestDescribe(t *testing.T) {
	Convey("Given the supported platforms", t, func() {
		all := platform.All()

		Convey("Then they should be in menu order with labels", func() {
			So(all, ShouldResemble, []platform.Name{platform.Vercel, platform.Heroku, platform.Railway, platform.Render})
			So(platform.Describe(platform.Vercel), ShouldEqual, "Vercel (Recommended - Free tier)")
			So(platform.Describe(platform.Render), ShouldEqual, "Render (Simple)")
			So(platform.Railway.Title(), ShouldEqual, "Railway")
		})

		Convey("And All should return a copy", func() {
			all[0] = "mutated"
			So(platform.All()[0], ShouldEqual, platform.Vercel)
		})
	})
}

func TestPushesEnv(t *testing.T) {
	Convey("Only Render should skip the environment push", t, func() {
		So(platform.Vercel.PushesEnv(), ShouldBeTrue)
		So(platform.Heroku.PushesEnv(), ShouldBeTrue)
		So(platform.Railway.PushesEnv(), ShouldBeTrue)
		So(platform.Render.PushesEnv(), ShouldBeFalse)
	})
}
