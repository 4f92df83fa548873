package indicator

import "markets-engine/internal/model"

// EMA emits the short and long EMA of closes per date, aligned to the
// longer warm-up so every point carries both values.
func EMA(ts model.TimeSeries, shortWindow, longWindow int) model.IndicatorSeries {
	slow := max(shortWindow, longWindow)
	n := ts.Len()
	out := model.NewIndicatorSeries(ts.Ticker, model.KindEMA, n-slow+1)
	if shortWindow <= 0 || longWindow <= 0 || n < slow {
		return out
	}

	closes := ts.Closes()
	short := EMAValues(closes, shortWindow)
	long := EMAValues(closes, longWindow)
	for i := slow - 1; i < n; i++ {
		out.Points = append(out.Points, model.EMAPoint{
			Date:     ts.Bars[i].Day(),
			ShortEMA: short[i-(shortWindow-1)],
			LongEMA:  long[i-(longWindow-1)],
		})
	}
	return out
}

// MACD computes macd = EMA(short) - EMA(long), signal = EMA(macd, signal)
// and histogram = macd - signal. The first long+signal-2 bars are dropped.
func MACD(ts model.TimeSeries, shortWindow, longWindow, signalWindow int) model.IndicatorSeries {
	slow := max(shortWindow, longWindow)
	n := ts.Len()
	first := slow + signalWindow - 2
	out := model.NewIndicatorSeries(ts.Ticker, model.KindMACD, n-first)
	if shortWindow <= 0 || longWindow <= 0 || signalWindow <= 0 || n < first+1 {
		return out
	}

	closes := ts.Closes()
	short := EMAValues(closes, shortWindow)
	long := EMAValues(closes, longWindow)

	// macdLine[j] belongs to bar slow-1+j
	macdLine := make([]float64, 0, n-slow+1)
	for i := slow - 1; i < n; i++ {
		macdLine = append(macdLine, short[i-(shortWindow-1)]-long[i-(longWindow-1)])
	}

	// signal[j] belongs to macdLine[signalWindow-1+j], i.e. bar first+j
	signal := EMAValues(macdLine, signalWindow)
	for j, sig := range signal {
		m := macdLine[signalWindow-1+j]
		out.Points = append(out.Points, model.MACDPoint{
			Date:      ts.Bars[first+j].Day(),
			MACD:      m,
			Signal:    sig,
			Histogram: m - sig,
		})
	}
	return out
}
