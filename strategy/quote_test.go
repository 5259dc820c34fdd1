package strategy

import (
	"testing"

	"etf-autotrader/order"
)

func newGen(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	return g
}

func TestQuoteFlatBook(t *testing.T) {
	g := newGen(t)
	p := NewPressure(0, 10, 100)
	q := g.Quote(Inputs{FairValue: 10050, Spread: 50}, p)
	if q.Bid != 10000 || q.Ask != 10100 {
		t.Fatalf("expected 10000/10100 got %d/%d", q.Bid, q.Ask)
	}
	if q.Crossed || q.Volume != 20 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if p.Bid() != 0 || p.Ask() != 0 {
		t.Fatalf("pressures should be unchanged")
	}
}

func TestQuoteCorrections(t *testing.T) {
	cases := []struct {
		name       string
		pb, pa     int
		bid, ask   int64
		correction Correction
		pbAfter    int
		paAfter    int
	}{
		{"up trend", 3, 0, 10200, 10300, CorrectionUp, 2, 0},
		{"down trend", 0, 3, 9900, 10000, CorrectionDown, 0, 2},
		{"equal", 1, 1, 10100, 10200, CorrectionFlat, 1, 1},
	}
	g := newGen(t)
	for _, c := range cases {
		p := NewPressure(0, 10, 100)
		for i := 0; i < c.pb; i++ {
			p.Raise(order.SideBuy)
		}
		for i := 0; i < c.pa; i++ {
			p.Raise(order.SideSell)
		}
		q := g.Quote(Inputs{FairValue: 10050, Spread: 50}, p)
		if !q.Crossed || q.Correction != c.correction {
			t.Fatalf("%s: expected %s correction, got %+v", c.name, c.correction, q)
		}
		if q.Bid != c.bid || q.Ask != c.ask {
			t.Fatalf("%s: expected %d/%d got %d/%d", c.name, c.bid, c.ask, q.Bid, q.Ask)
		}
		if p.Bid() != c.pbAfter || p.Ask() != c.paAfter {
			t.Fatalf("%s: pressures %d/%d", c.name, p.Bid(), p.Ask())
		}
		if q.Volume != 10 {
			t.Fatalf("%s: crossed quote should use base volume, got %d", c.name, q.Volume)
		}
	}
}

func TestQuoteAlwaysOrderedAndOnTick(t *testing.T) {
	g := newGen(t)
	for pb := 0; pb <= 10; pb++ {
		for pa := 0; pa <= 10; pa++ {
			for _, x := range []int64{-100, -69, -10, 0, 15, 70, 100} {
				for _, s := range []float64{50, 75, 300} {
					p := NewPressure(0, 10, 100)
					for i := 0; i < pb; i++ {
						p.Raise(order.SideBuy)
					}
					for i := 0; i < pa; i++ {
						p.Raise(order.SideSell)
					}
					q := g.Quote(Inputs{FairValue: 10050, Spread: s, Position: x}, p)
					if q.Bid >= q.Ask {
						t.Fatalf("pb=%d pa=%d x=%d s=%v: bid %d >= ask %d", pb, pa, x, s, q.Bid, q.Ask)
					}
					if q.Bid%100 != 0 || q.Ask%100 != 0 {
						t.Fatalf("prices off tick: %d/%d", q.Bid, q.Ask)
					}
					if q.Volume < 10 {
						t.Fatalf("volume below floor: %d", q.Volume)
					}
				}
			}
		}
	}
}

func TestQuotePositionSkew(t *testing.T) {
	g := newGen(t)
	p := NewPressure(0, 10, 100)
	long := g.Quote(Inputs{FairValue: 10050, Spread: 50, Position: 30}, p)
	flat := g.Quote(Inputs{FairValue: 10050, Spread: 50}, p)
	if long.Bid >= flat.Bid || long.Ask >= flat.Ask {
		t.Fatalf("a long position should lower both prices: long %+v flat %+v", long, flat)
	}
}

func TestVolumeTiers(t *testing.T) {
	g := newGen(t)
	calm := NewPressure(0, 10, 100)
	busy := NewPressure(0, 10, 100)
	for i := 0; i < 5; i++ {
		busy.Raise(order.SideSell)
	}
	cases := []struct {
		position int64
		p        *Pressure
		crossed  bool
		want     int64
	}{
		{0, calm, false, 20},
		{14, calm, false, 20},
		{15, calm, false, 19},
		{-95, calm, false, 14},
		{200, calm, false, 10},
		{0, busy, false, 10},
		{0, calm, true, 10},
	}
	for _, c := range cases {
		if got := g.Volume(c.position, c.p, c.crossed); got != c.want {
			t.Fatalf("position %d crossed %v: expected %d got %d", c.position, c.crossed, c.want, got)
		}
	}
}

func TestGeneratorRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighVolume = 5
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatalf("expected error for high volume below base")
	}
}
