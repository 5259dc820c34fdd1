package order

import "testing"

func TestBookFIFOAndCrossing(t *testing.T) {
	b := NewBook()
	b.Add(&Order{ID: 1, Side: SideBuy, Price: 9900, Remaining: 10, Status: StatusLive})
	b.Add(&Order{ID: 2, Side: SideSell, Price: 10100, Remaining: 5, Status: StatusLive})
	b.Add(&Order{ID: 3, Side: SideBuy, Price: 10000, Remaining: 7, Status: StatusPendingCancel})
	b.Add(&Order{ID: 4, Side: SideBuy, Price: 9800, Remaining: 3, Status: StatusPendingInsert})

	if got := b.Count(SideBuy); got != 2 {
		t.Fatalf("expected 2 resting buys, got %d", got)
	}
	if got := b.Volume(SideBuy); got != 20 {
		t.Fatalf("expected buy volume 20, got %d", got)
	}
	if o, ok := b.Oldest(SideBuy); !ok || o.ID != 1 {
		t.Fatalf("expected oldest buy 1, got %+v", o)
	}

	// a sell at 9900 would hit the resting buy at 9900 but not the pending cancel
	cross := b.Crossing(SideSell, 9900)
	if len(cross) != 1 || cross[0].ID != 1 {
		t.Fatalf("unexpected crossing set %+v", cross)
	}
	if len(b.Crossing(SideBuy, 10000)) != 0 {
		t.Fatalf("buy at 10000 should not cross sell at 10100")
	}

	b.Remove(1)
	if o, _ := b.Oldest(SideBuy); o.ID != 4 {
		t.Fatalf("expected oldest buy 4 after removal, got %d", o.ID)
	}
	list := b.List()
	if len(list) != 3 || list[0].ID != 2 || list[2].ID != 4 {
		t.Fatalf("list should be sorted by id, got %+v", list)
	}
}
