package indicator

import "markets-engine/internal/model"

// Stochastic computes the slow stochastic oscillator.
//
// rawK compares the close with the lookback high/low range (0 when the range
// is flat), %K is the simple average of rawK over smoothK and %D the simple
// average of %K over smoothD. Points start once %D is defined.
func Stochastic(ts model.TimeSeries, lookback, smoothK, smoothD int) model.IndicatorSeries {
	n := ts.Len()
	first := lookback + smoothK + smoothD - 3
	out := model.NewIndicatorSeries(ts.Ticker, model.KindStoch, n-first)
	if lookback <= 0 || smoothK <= 0 || smoothD <= 0 || n < first+1 {
		return out
	}

	highs := newWindow(lookback)
	lows := newWindow(lookback)
	kAvg := newSMA(smoothK)
	dAvg := newSMA(smoothD)

	for _, b := range ts.Bars {
		highs.push(b.High)
		lows.push(b.Low)
		if !highs.full() {
			continue
		}

		hh, ll := highs.max(), lows.min()
		rawK := 0.0
		if rng := hh - ll; rng != 0 {
			rawK = 100 * ((b.Close - ll) / rng)
		}

		k, ok := kAvg.update(rawK)
		if !ok {
			continue
		}
		d, ok := dAvg.update(k)
		if !ok {
			continue
		}
		out.Points = append(out.Points, model.StochPoint{Date: b.Day(), PercentK: k, PercentD: d})
	}
	return out
}
