package indicator

import "markets-engine/internal/model"

// RSI computes the Relative Strength Index using Wilder's smoothing.
// The first point is at bar index period; fewer than period+1 bars yields
// an empty series.
func RSI(ts model.TimeSeries, period int) model.IndicatorSeries {
	n := ts.Len()
	out := model.NewIndicatorSeries(ts.Ticker, model.KindRSI, n-period)
	if period <= 0 || n < period+1 {
		return out
	}

	gains := newWilder(period)
	losses := newWilder(period)
	for i := 1; i < n; i++ {
		delta := ts.Bars[i].Close - ts.Bars[i-1].Close
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		avgGain, ok := gains.update(gain)
		avgLoss, _ := losses.update(loss)
		if !ok {
			continue
		}
		out.Points = append(out.Points, model.ScalarPoint{
			Date:  ts.Bars[i].Day(),
			Value: rsiValue(avgGain, avgLoss),
		})
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
