package indicator

// window is a fixed-size rolling window over float64 values backed by a
// preallocated circular buffer.
type window struct {
	period int
	buf    []float64 // preallocated circular buffer
	idx    int       // current write position
	count  int       // total values received
}

func newWindow(period int) *window {
	return &window{
		period: period,
		buf:    make([]float64, period),
	}
}

// push appends v, evicting the oldest value once the window is full.
func (w *window) push(v float64) {
	w.buf[w.idx] = v
	w.idx = (w.idx + 1) % w.period
	w.count++
}

func (w *window) full() bool { return w.count >= w.period }

// mean is the simple average of the window. Only meaningful when full.
// Summed from the buffer so a window of values in [0, 100] never drifts
// outside that range.
func (w *window) mean() float64 {
	var sum float64
	for _, v := range w.buf {
		sum += v
	}
	return sum / float64(w.period)
}

// meanDeviation is the average absolute distance from center.
func (w *window) meanDeviation(center float64) float64 {
	var dev float64
	for _, v := range w.buf {
		d := v - center
		if d < 0 {
			d = -d
		}
		dev += d
	}
	return dev / float64(w.period)
}

func (w *window) max() float64 {
	m := w.buf[0]
	for _, v := range w.buf[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (w *window) min() float64 {
	m := w.buf[0]
	for _, v := range w.buf[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// sma is a simple moving average built on window.
type sma struct {
	w *window
}

func newSMA(period int) *sma { return &sma{w: newWindow(period)} }

// update feeds v and reports whether a full window is available.
func (s *sma) update(v float64) (float64, bool) {
	s.w.push(v)
	if !s.w.full() {
		return 0, false
	}
	return s.w.mean(), true
}
