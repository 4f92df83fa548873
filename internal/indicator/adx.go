package indicator

import (
	"math"

	"markets-engine/internal/model"
)

// ADX computes the Average Directional Index.
//
// True range and directional movement start at the second bar. TR, +DM and
// -DM are Wilder-smoothed over period, giving +DI/-DI and DX from bar
// index period; ADX is the Wilder-smoothed DX, first defined at bar index
// 2*period-1. Fewer than 2*period bars yields an empty series.
func ADX(ts model.TimeSeries, period int) model.IndicatorSeries {
	n := ts.Len()
	out := model.NewIndicatorSeries(ts.Ticker, model.KindADX, n-(2*period-1))
	if period <= 0 || n < 2*period {
		return out
	}

	trS := newWilder(period)
	plusS := newWilder(period)
	minusS := newWilder(period)
	adx := newWilder(period)

	for i := 1; i < n; i++ {
		cur, prev := ts.Bars[i], ts.Bars[i-1]

		tr := math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))

		up := cur.High - prev.High
		down := prev.Low - cur.Low
		plusDM, minusDM := 0.0, 0.0
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		sTR, ok := trS.update(tr)
		sPlus, _ := plusS.update(plusDM)
		sMinus, _ := minusS.update(minusDM)
		if !ok {
			continue
		}

		plusDI, minusDI := 0.0, 0.0
		if sTR != 0 {
			plusDI = 100 * sPlus / sTR
			minusDI = 100 * sMinus / sTR
		}
		dx := 0.0
		if sum := plusDI + minusDI; sum != 0 {
			dx = 100 * math.Abs(plusDI-minusDI) / sum
		}

		if v, ok := adx.update(dx); ok {
			out.Points = append(out.Points, model.ScalarPoint{Date: cur.Day(), Value: v})
		}
	}
	return out
}
