package market

import (
	"math"
	"testing"
)

func ladderSnapshot() Snapshot {
	return NewSnapshot(InstrumentETF, 1,
		[]int64{10100, 10200, 10300, 10400, 10500}, []int64{10, 10, 10, 10, 10},
		[]int64{10000, 9900, 9800, 9700, 9600}, []int64{10, 10, 10, 10, 10})
}

func TestFairValueMean(t *testing.T) {
	fv, ok := FairValue(ladderSnapshot(), FairValueMean)
	if !ok {
		t.Fatalf("expected fair value")
	}
	if fv != 10050 {
		t.Fatalf("expected 10050, got %v", fv)
	}
}

func TestFairValueSkipsEmptyLevels(t *testing.T) {
	s := NewSnapshot(InstrumentETF, 1, []int64{10100}, []int64{5}, []int64{10000}, []int64{5})
	fv, ok := FairValue(s, FairValueMean)
	if !ok || fv != 10050 {
		t.Fatalf("expected 10050, got %v ok=%v", fv, ok)
	}
	if _, ok := FairValue(Snapshot{}, FairValueMean); ok {
		t.Fatalf("empty book must not produce a fair value")
	}
}

func TestFairValueVWAP(t *testing.T) {
	s := NewSnapshot(InstrumentETF, 1, []int64{10100}, []int64{30}, []int64{10000}, []int64{10})
	fv, ok := FairValue(s, FairValueVWAP)
	if !ok {
		t.Fatalf("expected fair value")
	}
	want := (10100.0*30 + 10000.0*10) / 40
	if math.Abs(fv-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, fv)
	}

	// no displayed volume falls back to the plain mean
	s = NewSnapshot(InstrumentETF, 1, []int64{10100}, nil, []int64{10000}, nil)
	fv, ok = FairValue(s, FairValueVWAP)
	if !ok || fv != 10050 {
		t.Fatalf("expected mean fallback 10050, got %v", fv)
	}
}

func TestHalfSpread(t *testing.T) {
	tests := []struct {
		name     string
		bid, ask int64
		min      float64
		want     float64
	}{
		{"wide book", 10000, 10400, 50, 200},
		{"floor applies", 10000, 10100, 80, 80},
		{"equal", 10000, 10100, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshot(InstrumentETF, 1, []int64{tt.ask}, nil, []int64{tt.bid}, nil)
			if got := HalfSpread(s, tt.min); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseFairValueMode(t *testing.T) {
	if m, err := ParseFairValueMode(""); err != nil || m != FairValueMean {
		t.Fatalf("empty mode should default to mean: %v %v", m, err)
	}
	if _, err := ParseFairValueMode("median"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseInstrument(t *testing.T) {
	if inst, err := ParseInstrument("ETF"); err != nil || inst != InstrumentETF {
		t.Fatalf("parse etf: %v %v", inst, err)
	}
	if inst, err := ParseInstrument("future"); err != nil || inst != InstrumentFuture {
		t.Fatalf("parse future: %v %v", inst, err)
	}
	if _, err := ParseInstrument("bond"); err == nil {
		t.Fatalf("expected error")
	}
}
