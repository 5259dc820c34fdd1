package market

import "math"

// Trend is a least-squares line fitted to the window against sample index.
type Trend struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// TrendWindow keeps the most recent fair values, oldest evicted first.
type TrendWindow struct {
	size   int
	values []float64
}

// NewTrendWindow creates a window holding at most size values.
func NewTrendWindow(size int) *TrendWindow {
	if size < 2 {
		size = 2
	}
	return &TrendWindow{
		size:   size,
		values: make([]float64, 0, size),
	}
}

// Add appends a value, evicting the oldest when the window is full.
func (w *TrendWindow) Add(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.size {
		w.values = w.values[1:]
	}
}

func (w *TrendWindow) Len() int { return len(w.values) }

func (w *TrendWindow) Full() bool { return len(w.values) >= w.size }

// Reset drops all samples.
func (w *TrendWindow) Reset() { w.values = w.values[:0] }

// Fit regresses the window against 0..n-1. It returns false with fewer than
// two samples. A flat window has zero slope and zero R2.
func (w *TrendWindow) Fit() (Trend, bool) {
	n := len(w.values)
	if n < 2 {
		return Trend{}, false
	}
	var sumX, sumY float64
	for i, y := range w.values {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy, syy float64
	for i, y := range w.values {
		dx := float64(i) - meanX
		dy := y - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	slope := sxy / sxx
	tr := Trend{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}
	if syy > 0 {
		tr.R2 = math.Min(1, (sxy*sxy)/(sxx*syy))
	}
	return tr, true
}
