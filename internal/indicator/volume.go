package indicator

import "markets-engine/internal/model"

// AD computes the Accumulation/Distribution line: the running sum of
// money-flow volume, starting at 0. Bars with high == low contribute 0.
func AD(ts model.TimeSeries) model.IndicatorSeries {
	out := model.NewIndicatorSeries(ts.Ticker, model.KindAD, ts.Len())
	var ad float64
	for _, b := range ts.Bars {
		multiplier := 0.0
		if rng := b.High - b.Low; rng != 0 {
			multiplier = ((b.Close - b.Low) - (b.High - b.Close)) / rng
		}
		ad += multiplier * b.Volume
		out.Points = append(out.Points, model.ScalarPoint{Date: b.Day(), Value: ad})
	}
	return out
}

// OBV computes On-Balance Volume. The first value is the first bar's
// volume; each later bar adds or subtracts its volume depending on the
// direction of the close, and leaves the total unchanged on equal closes.
func OBV(ts model.TimeSeries) model.IndicatorSeries {
	n := ts.Len()
	out := model.NewIndicatorSeries(ts.Ticker, model.KindOBV, n)
	if n == 0 {
		return out
	}

	obv := ts.Bars[0].Volume
	out.Points = append(out.Points, model.ScalarPoint{Date: ts.Bars[0].Day(), Value: obv})
	for i := 1; i < n; i++ {
		cur, prev := ts.Bars[i], ts.Bars[i-1]
		switch {
		case cur.Close > prev.Close:
			obv += cur.Volume
		case cur.Close < prev.Close:
			obv -= cur.Volume
		}
		out.Points = append(out.Points, model.ScalarPoint{Date: cur.Day(), Value: obv})
	}
	return out
}
