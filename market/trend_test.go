package market

import (
	"math"
	"testing"
)

func TestTrendWindowEvictsOldest(t *testing.T) {
	w := NewTrendWindow(3)
	for _, v := range []float64{1, 2, 3, 4} {
		w.Add(v)
	}
	if w.Len() != 3 || !w.Full() {
		t.Fatalf("expected full window of 3, got %d", w.Len())
	}
	if w.values[0] != 2 {
		t.Fatalf("expected oldest value evicted, got %v", w.values)
	}
}

func TestTrendWindowFit(t *testing.T) {
	w := NewTrendWindow(5)
	if _, ok := w.Fit(); ok {
		t.Fatalf("empty window must not fit")
	}
	for i := 0; i < 5; i++ {
		w.Add(100 + 2*float64(i))
	}
	tr, ok := w.Fit()
	if !ok {
		t.Fatalf("expected fit")
	}
	if math.Abs(tr.Slope-2) > 1e-9 || math.Abs(tr.Intercept-100) > 1e-9 {
		t.Fatalf("unexpected line %+v", tr)
	}
	if math.Abs(tr.R2-1) > 1e-9 {
		t.Fatalf("perfect line should have R2=1, got %v", tr.R2)
	}
}

func TestTrendWindowFlat(t *testing.T) {
	w := NewTrendWindow(4)
	for i := 0; i < 4; i++ {
		w.Add(100)
	}
	tr, ok := w.Fit()
	if !ok || tr.Slope != 0 || tr.R2 != 0 {
		t.Fatalf("flat window: %+v ok=%v", tr, ok)
	}
	w.Reset()
	if w.Len() != 0 {
		t.Fatalf("reset failed")
	}
}
