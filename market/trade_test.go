package market

import "testing"

func TestTapeRecord(t *testing.T) {
	tape := NewTape()
	e := tape.Record(InstrumentFuture, []TradeTick{{Price: 10000, Volume: 3}, {Price: 10100, Volume: 2}, {Price: 0, Volume: 9}})
	if e.LastPrice != 10100 || e.TotalVolume != 5 || e.Messages != 1 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if _, ok := tape.Last(InstrumentETF); ok {
		t.Fatalf("etf should have no entry")
	}
}

func TestTapeAccumulates(t *testing.T) {
	tape := NewTape()
	tape.Record(InstrumentETF, []TradeTick{{Price: 10000, Volume: 4}})
	tape.Record(InstrumentETF, nil)
	e := tape.Record(InstrumentETF, []TradeTick{{Price: 9900, Volume: 1}})
	if e.LastPrice != 9900 || e.TotalVolume != 5 || e.Messages != 3 {
		t.Fatalf("unexpected entry %+v", e)
	}
	last, ok := tape.Last(InstrumentETF)
	if !ok || last != e {
		t.Fatalf("last entry mismatch: %+v ok=%v", last, ok)
	}
}
