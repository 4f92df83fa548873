package indicator

import "testing"

func TestWindowMean_Period3(t *testing.T) {
	// Prices: 100, 102, 104, 103, 105
	// SMA after value 3: (100+102+104)/3 = 102
	// SMA after value 4: (102+104+103)/3 = 103
	// SMA after value 5: (104+103+105)/3 = 104
	s := newSMA(3)
	prices := []float64{100, 102, 104, 103, 105}
	expected := []float64{0, 0, 102.0, 103.0, 104.0}
	ready := []bool{false, false, true, true, true}

	for i, p := range prices {
		v, ok := s.update(p)
		if ok != ready[i] {
			t.Errorf("value %d: ready=%v, want %v", i, ok, ready[i])
		}
		if ok {
			assertClose(t, "SMA(3)", v, expected[i], 1e-9)
		}
	}
}

func TestWindow_MinMaxDeviation(t *testing.T) {
	w := newWindow(4)
	for _, v := range []float64{5, 1, 9, 3, 7} { // 5 is evicted
		w.push(v)
	}
	if !w.full() {
		t.Fatal("expected full window")
	}
	if w.max() != 9 || w.min() != 1 {
		t.Errorf("max/min: got %v/%v, want 9/1", w.max(), w.min())
	}
	mean := w.mean() // (1+9+3+7)/4 = 5
	assertClose(t, "mean", mean, 5, 1e-12)
	// |1-5|+|9-5|+|3-5|+|7-5| = 12 → 3
	assertClose(t, "meanDeviation", w.meanDeviation(mean), 3, 1e-12)
}

func TestEMA_Correctness_Period3(t *testing.T) {
	// EMA(3): multiplier = 2/(3+1) = 0.5
	// Prices: 100, 102, 104, 103, 105
	// Value 3: seed = 306/3 = 102.0
	// Value 4: 103*0.5 + 102.0*0.5 = 102.5
	// Value 5: 105*0.5 + 102.5*0.5 = 103.75
	e := newEMA(3)
	prices := []float64{100, 102, 104, 103, 105}
	expected := []float64{0, 0, 102.0, 102.5, 103.75}

	for i, p := range prices {
		v, ok := e.update(p)
		if ok != (i >= 2) {
			t.Errorf("value %d: update ok=%v", i, ok)
		}
		if i >= 2 {
			if !ok {
				t.Fatalf("value %d: expected EMA to be defined", i)
			}
			assertClose(t, "EMA(3)", v, expected[i], 1e-9)
		}
	}
}

func TestEMA_Correctness_Period5(t *testing.T) {
	// EMA(5): multiplier = 1/3
	// Seed = (44+44.25+44.50+43.75+44.50)/5 = 44.20
	// 44.25 → 44.25/3 + 44.20*2/3 = 44.216667
	// 44.00 → 44.00/3 + 44.216667*2/3 = 44.144444
	got := EMAValues([]float64{44, 44.25, 44.50, 43.75, 44.50, 44.25, 44.00}, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	assertClose(t, "seed", got[0], 44.20, 1e-9)
	assertClose(t, "EMA 6", got[1], 44.216667, 1e-6)
	assertClose(t, "EMA 7", got[2], 44.144444, 1e-6)
}

func TestEMAValues_Short(t *testing.T) {
	if got := EMAValues([]float64{1, 2}, 3); got != nil {
		t.Errorf("expected nil for insufficient input, got %v", got)
	}
	if got := EMAValues([]float64{1, 2}, 0); got != nil {
		t.Errorf("expected nil for zero period, got %v", got)
	}
}

func TestWilder_SeedThenSmooth(t *testing.T) {
	// period 3: seed = (3+6+9)/3 = 6; next: (6*2 + 12)/3 = 8
	w := newWilder(3)
	for _, x := range []float64{3, 6} {
		if _, ok := w.update(x); ok {
			t.Fatal("should not be ready before period values")
		}
	}
	v, ok := w.update(9)
	if !ok {
		t.Fatal("expected ready after period values")
	}
	assertClose(t, "seed", v, 6, 1e-12)
	v, _ = w.update(12)
	assertClose(t, "smoothed", v, 8, 1e-12)
}
