package indicator

// ema accumulates an Exponential Moving Average.
// O(1) per update, no window storage needed.
type ema struct {
	period     int
	multiplier float64
	current    float64
	count      int
	sum        float64
}

func newEMA(period int) *ema {
	return &ema{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

// update feeds the next value and reports whether the EMA is defined yet.
func (e *ema) update(price float64) (float64, bool) {
	e.count++

	if e.count <= e.period {
		// Accumulate for initial SMA seed
		e.sum += price
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
			return e.current, true
		}
		return 0, false
	}

	// EMA = (Price * multiplier) + (EMA_prev * (1 - multiplier))
	e.current = (price * e.multiplier) + (e.current * (1 - e.multiplier))
	return e.current, true
}

// EMAValues returns the EMA of values over period. The first output
// corresponds to values[period-1]; indices before that are undefined and
// omitted. Returns nil when len(values) < period or period <= 0.
func EMAValues(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	e := newEMA(period)
	for _, v := range values {
		if x, ok := e.update(v); ok {
			out = append(out, x)
		}
	}
	return out
}
