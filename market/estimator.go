package market

// Estimate is one fair value reading.
type Estimate struct {
	// Value is the fair value used for quoting.
	Value float64
	// Raw is the snapshot fair value before any trend projection.
	Raw float64
	// Trend is the latest fit; zero until the window is full.
	Trend Trend
	// Projected is true when Value was moved along the trend line.
	Projected bool
}

// Estimator turns snapshots into fair values. With a trend window configured
// it keeps a trailing history and, once the window is full and the fit is
// strong enough, projects the fair value lookahead steps along the fitted line.
type Estimator struct {
	mode      FairValueMode
	window    *TrendWindow
	minR2     float64
	lookahead float64
}

// NewEstimator builds an estimator; window <= 0 disables trend projection.
func NewEstimator(mode FairValueMode, window int, minR2 float64, lookahead int) *Estimator {
	e := &Estimator{mode: mode, minR2: minR2, lookahead: float64(lookahead)}
	if window > 0 {
		e.window = NewTrendWindow(window)
	}
	return e
}

// Estimate computes the fair value of s. It returns false for a book with no
// visible prices; such snapshots are not added to the history.
func (e *Estimator) Estimate(s Snapshot) (Estimate, bool) {
	fv, ok := FairValue(s, e.mode)
	if !ok {
		return Estimate{}, false
	}
	est := Estimate{Value: fv, Raw: fv}
	if e.window == nil {
		return est, true
	}
	e.window.Add(fv)
	if !e.window.Full() {
		return est, true
	}
	tr, ok := e.window.Fit()
	if !ok {
		return est, true
	}
	est.Trend = tr
	if tr.R2 >= e.minR2 {
		x := float64(e.window.Len()-1) + e.lookahead
		est.Value = tr.Intercept + tr.Slope*x
		est.Projected = true
	}
	return est, true
}

// Reset clears the trend history.
func (e *Estimator) Reset() {
	if e.window != nil {
		e.window.Reset()
	}
}
