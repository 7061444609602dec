package pricechart

import "testing"

func TestNewChartMirrorsPoints(t *testing.T) {
	points := (&Synthesizer{Rand: fixedRand(0.5), Now: fixedNow}).Synthesize(2000)
	c := NewChart(points)

	if len(c.Traces) != 1 {
		t.Fatalf("expected a single trace, got %d", len(c.Traces))
	}
	tr := c.Traces[0]
	if len(tr.X) != len(points) || len(tr.Y) != len(points) {
		t.Fatalf("trace length mismatch: %d/%d vs %d", len(tr.X), len(tr.Y), len(points))
	}
	if tr.X[len(tr.X)-1] != "Today" || tr.Y[len(tr.Y)-1] != 2000 {
		t.Fatalf("unexpected final sample %s=%d", tr.X[len(tr.X)-1], tr.Y[len(tr.Y)-1])
	}
	if c.Layout.Title != "30-Day Price History (₹)" || c.Layout.HoverMode != "x unified" {
		t.Fatalf("unexpected layout %+v", c.Layout)
	}
}

func TestHistoryShape(t *testing.T) {
	h := History([]PricePoint{{Label: "Mar 1", Value: 10}, {Label: "Today", Value: 9}})
	if len(h) != 2 || h[1].Date != "Today" || h[1].Price != 9 {
		t.Fatalf("unexpected history %+v", h)
	}
}
