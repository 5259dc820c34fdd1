package market

import (
	"math"
	"testing"
)

func flatBook(seq int64, bid, ask int64) Snapshot {
	return NewSnapshot(InstrumentETF, seq,
		[]int64{ask}, []int64{10},
		[]int64{bid}, []int64{10})
}

func TestEstimatorWithoutTrend(t *testing.T) {
	e := NewEstimator(FairValueMean, 0, 0.8, 1)
	est, ok := e.Estimate(flatBook(1, 10000, 10100))
	if !ok || est.Value != 10050 || est.Projected {
		t.Fatalf("unexpected estimate %+v", est)
	}
	if _, ok := e.Estimate(Snapshot{Instrument: InstrumentETF}); ok {
		t.Fatalf("empty book should not produce a fair value")
	}
}

func TestEstimatorProjectsStrongTrend(t *testing.T) {
	e := NewEstimator(FairValueMean, 3, 0.8, 1)
	var est Estimate
	for i := int64(0); i < 3; i++ {
		est, _ = e.Estimate(flatBook(i+1, 10000+i*100, 10100+i*100))
	}
	// raw values 10050, 10150, 10250: next point on the line is 10350
	if !est.Projected || math.Abs(est.Value-10350) > 1e-6 {
		t.Fatalf("expected projection to 10350, got %+v", est)
	}
	if est.Raw != 10250 {
		t.Fatalf("raw should be the latest snapshot value, got %v", est.Raw)
	}
	e.Reset()
	est, _ = e.Estimate(flatBook(4, 10000, 10100))
	if est.Projected {
		t.Fatalf("history should be cleared after reset")
	}
}

func TestEstimatorIgnoresWeakFit(t *testing.T) {
	e := NewEstimator(FairValueMean, 4, 0.8, 1)
	var est Estimate
	for i, p := range []int64{10000, 10400, 9900, 10300} {
		est, _ = e.Estimate(flatBook(int64(i+1), p, p+100))
	}
	if est.Projected {
		t.Fatalf("noisy window should not be projected, r2=%v", est.Trend.R2)
	}
}
