package indicator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"markets-engine/internal/model"
)

// ────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────

var day0 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func bar(i int, o, h, l, c, v float64) model.Bar {
	return model.Bar{Date: day0.AddDate(0, 0, i), Open: o, High: h, Low: l, Close: c, Volume: v}
}

// closeBar builds a bar where open/high/low/close are all price.
func closeBar(i int, price float64) model.Bar {
	return bar(i, price, price, price, price, 1000)
}

func series(bars ...model.Bar) model.TimeSeries {
	return model.TimeSeries{Ticker: "TEST", Index: "stocks-eod_test", Bars: bars}
}

func closesSeries(prices ...float64) model.TimeSeries {
	bars := make([]model.Bar, len(prices))
	for i, p := range prices {
		bars[i] = closeBar(i, p)
	}
	return series(bars...)
}

// randomWalk returns n well-formed bars (low <= open, close <= high) from a
// fixed seed so every run sees the same data.
func randomWalk(n int, seed int64) model.TimeSeries {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price = math.Max(1, price+rng.NormFloat64()*2)
		high := math.Max(open, price) + rng.Float64()*1.5
		low := math.Min(open, price) - rng.Float64()*1.5
		vol := float64(1000 + rng.Intn(5000))
		bars[i] = bar(i, open, high, low, price, vol)
	}
	return series(bars...)
}

func scalars(t *testing.T, s model.IndicatorSeries) []float64 {
	t.Helper()
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		sp, ok := p.(model.ScalarPoint)
		if !ok {
			t.Fatalf("point %d: expected ScalarPoint, got %T", i, p)
		}
		out[i] = sp.Value
	}
	return out
}

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}
