package indicator

// wilder implements Wilder smoothing (a smoothed moving average).
// First value is the simple average of the first period inputs, then
// value = (prev*(period-1) + x) / period.
type wilder struct {
	period  int
	count   int
	sum     float64
	current float64
}

func newWilder(period int) *wilder {
	return &wilder{period: period}
}

// update feeds x and reports whether the smoothed value is defined.
func (s *wilder) update(x float64) (float64, bool) {
	s.count++

	if s.count <= s.period {
		// Accumulate for initial SMA seed
		s.sum += x
		if s.count == s.period {
			s.current = s.sum / float64(s.period)
			return s.current, true
		}
		return 0, false
	}

	s.current = (s.current*float64(s.period-1) + x) / float64(s.period)
	return s.current, true
}
