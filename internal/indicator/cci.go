package indicator

import "markets-engine/internal/model"

// DefaultCCIConstant is Lambert's scaling constant.
const DefaultCCIConstant = 0.015

// CCI computes the Commodity Channel Index over the typical price
// (high+low+close)/3. A zero mean deviation yields 0 rather than a
// division by zero, so period 1 always produces zeros.
func CCI(ts model.TimeSeries, period int, constant float64) model.IndicatorSeries {
	n := ts.Len()
	out := model.NewIndicatorSeries(ts.Ticker, model.KindCCI, n-period+1)
	if period <= 0 || n < period {
		return out
	}

	w := newWindow(period)
	for _, b := range ts.Bars {
		tp := (b.High + b.Low + b.Close) / 3
		w.push(tp)
		if !w.full() {
			continue
		}

		mean := w.mean()
		md := w.meanDeviation(mean)
		v := 0.0
		if md != 0 && constant != 0 {
			v = (tp - mean) / (constant * md)
		}
		out.Points = append(out.Points, model.ScalarPoint{Date: b.Day(), Value: v})
	}
	return out
}
