package indicator

import (
	"testing"

	"github.com/markcheno/go-talib"

	"markets-engine/internal/model"
)

// Cross-checks against go-talib. Its outputs are aligned to the input
// length with zeros before the lookback, so index i here matches bar i.

type ohlcv struct {
	high, low, close, volume []float64
}

func columns(ts model.TimeSeries) ohlcv {
	var c ohlcv
	for _, b := range ts.Bars {
		c.high = append(c.high, b.High)
		c.low = append(c.low, b.Low)
		c.close = append(c.close, b.Close)
		c.volume = append(c.volume, b.Volume)
	}
	return c
}

// compareTail checks ours against the last len(ours) values of ref.
func compareTail(t *testing.T, label string, ours, ref []float64, tol float64) {
	t.Helper()
	if len(ours) == 0 {
		t.Fatalf("%s: no points computed", label)
	}
	offset := len(ref) - len(ours)
	if offset < 0 {
		t.Fatalf("%s: %d points for %d inputs", label, len(ours), len(ref))
	}
	for i, v := range ours {
		assertClose(t, label, v, ref[offset+i], tol)
	}
}

func TestTalib_AD(t *testing.T) {
	ts := randomWalk(120, 101)
	c := columns(ts)
	compareTail(t, "AD", scalars(t, AD(ts)), talib.Ad(c.high, c.low, c.close, c.volume), 1e-6)
}

func TestTalib_OBV(t *testing.T) {
	ts := randomWalk(120, 102)
	c := columns(ts)
	compareTail(t, "OBV", scalars(t, OBV(ts)), talib.Obv(c.close, c.volume), 1e-6)
}

func TestTalib_EMA(t *testing.T) {
	ts := randomWalk(120, 103)
	c := columns(ts)
	for _, period := range []int{5, 12, 26} {
		compareTail(t, "EMA", EMAValues(c.close, period), talib.Ema(c.close, period), 1e-6)
	}
}

func TestTalib_RSI(t *testing.T) {
	ts := randomWalk(150, 104)
	c := columns(ts)
	for _, period := range []int{7, 14} {
		compareTail(t, "RSI", scalars(t, RSI(ts, period)), talib.Rsi(c.close, period), 1e-6)
	}
}

func TestTalib_CCI(t *testing.T) {
	ts := randomWalk(120, 105)
	c := columns(ts)
	for _, period := range []int{5, 20} {
		compareTail(t, "CCI", scalars(t, CCI(ts, period, DefaultCCIConstant)), talib.Cci(c.high, c.low, c.close, period), 1e-6)
	}
}
