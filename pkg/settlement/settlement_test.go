package settlement_test

import (
	"testing"

	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
	"github.com/radieske/picks-league-platform/pkg/settlement"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBucketFor(t *testing.T) {
	Convey("Given a fixture BLU (home) vs RED (away)", t, func() {
		home, away := "BLU", "RED"

		Convey("Then picks map to the five buckets", func() {
			cases := []struct {
				pick   scoring.Pick
				bucket settlement.Bucket
			}{
				{scoring.Pick{Team: "BLU", Margin: 1}, settlement.BucketHome1To12},
				{scoring.Pick{Team: "BLU", Margin: 13}, settlement.BucketHome13Plus},
				{scoring.Pick{Team: "RED", Margin: 1}, settlement.BucketAway1To12},
				{scoring.Pick{Team: "RED", Margin: 13}, settlement.BucketAway13Plus},
				{scoring.Pick{Team: scoring.PickDraw}, settlement.BucketDraw},
			}
			for _, c := range cases {
				b, ok := settlement.BucketFor(c.pick, home, away)
				So(ok, ShouldBeTrue)
				So(b, ShouldEqual, c.bucket)
			}
		})

		Convey("And non-conforming picks are rejected, not synthesized", func() {
			_, ok := settlement.BucketFor(scoring.Pick{Team: "GRN", Margin: 1}, home, away)
			So(ok, ShouldBeFalse)

			_, ok = settlement.BucketFor(scoring.Pick{Team: "BLU", Margin: 7}, home, away)
			So(ok, ShouldBeFalse)

			_, ok = settlement.BucketFor(scoring.Pick{Team: "RED", Margin: 0}, home, away)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSettledBucket(t *testing.T) {
	Convey("Given official results for BLU vs RED", t, func() {
		home, away := "BLU", "RED"

		b, ok := settlement.SettledBucket(scoring.Result{WinningTeam: "BLU", MarginBand: scoring.Band1To12}, home, away)
		So(ok, ShouldBeTrue)
		So(b, ShouldEqual, settlement.BucketHome1To12)

		b, ok = settlement.SettledBucket(scoring.Result{WinningTeam: "RED", MarginBand: scoring.Band13Plus}, home, away)
		So(ok, ShouldBeTrue)
		So(b, ShouldEqual, settlement.BucketAway13Plus)

		b, ok = settlement.SettledBucket(scoring.Result{WinningTeam: scoring.PickDraw}, home, away)
		So(ok, ShouldBeTrue)
		So(b, ShouldEqual, settlement.BucketDraw)

		Convey("And a fixture without a result settles nothing", func() {
			_, ok := settlement.SettledBucket(scoring.Result{}, home, away)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestValidLine(t *testing.T) {
	Convey("Given odds lines", t, func() {
		good := events.OddsLine{Home1To12: 2.1, Home13Plus: 3.4, Draw: 18.0, Away1To12: 2.8, Away13Plus: 5.5}
		So(settlement.ValidLine(good), ShouldBeTrue)

		Convey("Then any value under 1.01 invalidates the line", func() {
			bad := good
			bad.Draw = 1.0
			So(settlement.ValidLine(bad), ShouldBeFalse)

			bad = good
			bad.Away13Plus = 0
			So(settlement.ValidLine(bad), ShouldBeFalse)
		})
	})
}

func TestSettle(t *testing.T) {
	Convey("Given a $10 stake", t, func() {
		const stake = settlement.StakeCents

		Convey("When the bet bucket matches the settled bucket", func() {
			out := settlement.Settle(settlement.BucketHome1To12, settlement.BucketHome1To12, 2.5, stake)
			So(out.Won, ShouldBeTrue)
			So(out.ReturnCents, ShouldEqual, int64(2500))
			So(out.ProfitCents, ShouldEqual, int64(1500))
			So(out.ROI, ShouldAlmostEqual, 1.5)
		})

		Convey("When the bet bucket misses", func() {
			out := settlement.Settle(settlement.BucketDraw, settlement.BucketAway13Plus, 18.0, stake)
			So(out.Won, ShouldBeFalse)
			So(out.ReturnCents, ShouldEqual, int64(0))
			So(out.ProfitCents, ShouldEqual, int64(-stake))
			So(out.ROI, ShouldAlmostEqual, -1.0)
		})

		Convey("When the odd has no exact binary representation", func() {
			// 2.03 × 1000 dá 2029.999... em float64; o retorno tem
			// que ser o centavo exato, 2030
			out := settlement.Settle(settlement.BucketDraw, settlement.BucketDraw, 2.03, stake)
			So(out.ReturnCents, ShouldEqual, int64(2030))
			So(out.ProfitCents, ShouldEqual, int64(1030))
			So(out.ROI, ShouldAlmostEqual, 1.03)
		})

		Convey("When the odd is the minimum 1.01", func() {
			out := settlement.Settle(settlement.BucketDraw, settlement.BucketDraw, 1.01, stake)
			So(out.ReturnCents, ShouldEqual, int64(1010))
			So(out.ProfitCents, ShouldEqual, int64(10))
			So(out.ROI, ShouldAlmostEqual, 0.01)
		})
	})
}
