package posttrade

import (
	"math"
	"testing"

	"etf-autotrader/order"
)

func TestAnalyzer_OnFill(t *testing.T) {
	a := NewAnalyzer(1, 3, 0)
	a.OnFill(1, order.SideBuy, 9900, 10)

	stats := a.Stats()
	if stats.TotalFills != 1 {
		t.Errorf("Expected 1 total fill, got %d", stats.TotalFills)
	}
	if stats.AnalyzedFills != 0 {
		t.Errorf("Expected no analysed fills before the window, got %d", stats.AnalyzedFills)
	}
}

func TestAnalyzer_Markouts(t *testing.T) {
	a := NewAnalyzer(1, 2, 0)
	a.OnFill(1, order.SideBuy, 9900, 10)  // mid goes up: favourable
	a.OnFill(2, order.SideSell, 10100, 5) // mid goes up: adverse
	a.OnMid(10000)
	a.OnMid(10200)

	stats := a.Stats()
	if stats.AnalyzedFills != 2 {
		t.Fatalf("Expected 2 analysed fills, got %d", stats.AnalyzedFills)
	}
	// buy: +100 short, +300 long; sell: +100 short, -100 long
	if math.Abs(stats.AvgMarkoutShort-100) > 1e-9 {
		t.Errorf("AvgMarkoutShort = %v, want 100", stats.AvgMarkoutShort)
	}
	if math.Abs(stats.AvgMarkoutLong-100) > 1e-9 {
		t.Errorf("AvgMarkoutLong = %v, want 100", stats.AvgMarkoutLong)
	}
	if stats.AdverseSelectionRate != 0 {
		t.Errorf("AdverseSelectionRate = %v, want 0", stats.AdverseSelectionRate)
	}
}

func TestAnalyzer_AdverseSelection(t *testing.T) {
	a := NewAnalyzer(1, 1, 0)
	a.OnFill(1, order.SideBuy, 10000, 1)
	a.OnFill(2, order.SideBuy, 10000, 1)
	a.OnMid(9900)
	a.OnFill(3, order.SideSell, 10000, 1)
	a.OnMid(9800)

	stats := a.Stats()
	if stats.AnalyzedFills != 3 {
		t.Fatalf("Expected 3 analysed fills, got %d", stats.AnalyzedFills)
	}
	want := 2.0 / 3.0
	if math.Abs(stats.AdverseSelectionRate-want) > 1e-9 {
		t.Errorf("AdverseSelectionRate = %v, want %v", stats.AdverseSelectionRate, want)
	}
}

func TestAnalyzer_Limit(t *testing.T) {
	a := NewAnalyzer(1, 1, 2)
	for i := uint64(1); i <= 5; i++ {
		a.OnFill(i, order.SideBuy, 10000, 1)
		a.OnMid(10000)
	}
	if got := a.Stats().AnalyzedFills; got != 2 {
		t.Errorf("Expected 2 retained fills, got %d", got)
	}
}
