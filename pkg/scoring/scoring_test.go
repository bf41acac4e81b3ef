package scoring_test

import (
	"testing"

	"github.com/radieske/picks-league-platform/pkg/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given a fixture with no result yet", t, func() {
		res := scoring.Result{}

		Convey("Then every pick scores zero", func() {
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 1}, res), ShouldEqual, 0)
			So(scoring.Score(scoring.Pick{Team: "RED", Margin: 13}, res), ShouldEqual, 0)
			So(scoring.Score(scoring.Pick{Team: scoring.PickDraw}, res), ShouldEqual, 0)
		})
	})

	Convey("Given a draw result", t, func() {
		res := scoring.Result{WinningTeam: scoring.PickDraw}

		Convey("Then a draw pick scores 24 regardless of margin", func() {
			So(scoring.Score(scoring.Pick{Team: scoring.PickDraw}, res), ShouldEqual, 24)
			So(scoring.Score(scoring.Pick{Team: scoring.PickDraw, Margin: 1}, res), ShouldEqual, 24)
			So(scoring.Score(scoring.Pick{Team: scoring.PickDraw, Margin: 13}, res), ShouldEqual, 24)
		})

		Convey("And any team pick scores zero", func() {
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 1}, res), ShouldEqual, 0)
			So(scoring.Score(scoring.Pick{Team: "RED", Margin: 13}, res), ShouldEqual, 0)
		})
	})

	Convey("Given a narrow home win (BLU by 1-12)", t, func() {
		res := scoring.Result{WinningTeam: "BLU", MarginBand: scoring.Band1To12}

		Convey("Then the right team with the right margin scores 8", func() {
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 1}, res), ShouldEqual, 8)
		})

		Convey("And the right team with the wrong margin scores 5", func() {
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 13}, res), ShouldEqual, 5)
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 0}, res), ShouldEqual, 5)
		})

		Convey("And the wrong team scores zero", func() {
			So(scoring.Score(scoring.Pick{Team: "RED", Margin: 1}, res), ShouldEqual, 0)
		})

		Convey("And a draw pick scores zero, never panics", func() {
			So(scoring.Score(scoring.Pick{Team: scoring.PickDraw}, res), ShouldEqual, 0)
		})
	})

	Convey("Given a wide away win (RED by 13+)", t, func() {
		res := scoring.Result{WinningTeam: "RED", MarginBand: scoring.Band13Plus}

		So(scoring.Score(scoring.Pick{Team: "RED", Margin: 13}, res), ShouldEqual, 8)
		So(scoring.Score(scoring.Pick{Team: "RED", Margin: 1}, res), ShouldEqual, 5)
		So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 13}, res), ShouldEqual, 0)
	})

	Convey("Given a result with an unknown margin band", t, func() {
		res := scoring.Result{WinningTeam: "BLU", MarginBand: "??"}

		Convey("Then the right team still earns only the base points", func() {
			So(scoring.Score(scoring.Pick{Team: "BLU", Margin: 1}, res), ShouldEqual, 5)
		})
	})
}
