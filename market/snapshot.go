package market

import (
	"fmt"
	"strings"
)

// BookDepth is the number of price levels reported per side.
const BookDepth = 5

// Instrument identifies one of the two traded instruments.
type Instrument int

const (
	InstrumentFuture Instrument = iota
	InstrumentETF
)

func (i Instrument) String() string {
	switch i {
	case InstrumentFuture:
		return "future"
	case InstrumentETF:
		return "etf"
	default:
		return fmt.Sprintf("instrument(%d)", int(i))
	}
}

// ParseInstrument accepts "etf" or "future" (case-insensitive).
func ParseInstrument(s string) (Instrument, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "future", "futures":
		return InstrumentFuture, nil
	case "etf":
		return InstrumentETF, nil
	default:
		return 0, fmt.Errorf("unknown instrument %q", s)
	}
}

// Level is one price level of the book. Price 0 means the level is empty.
type Level struct {
	Price  int64
	Volume int64
}

// Snapshot represents one order book update, best level first on each side.
type Snapshot struct {
	Instrument Instrument
	Sequence   int64
	Asks       [BookDepth]Level
	Bids       [BookDepth]Level
}

// NewSnapshot builds a snapshot from the parallel arrays delivered by the exchange.
// Missing entries are left as empty levels; extra entries are ignored.
func NewSnapshot(inst Instrument, seq int64, askPrices, askVolumes, bidPrices, bidVolumes []int64) Snapshot {
	s := Snapshot{Instrument: inst, Sequence: seq}
	for i := 0; i < BookDepth; i++ {
		if i < len(askPrices) {
			s.Asks[i].Price = askPrices[i]
		}
		if i < len(askVolumes) {
			s.Asks[i].Volume = askVolumes[i]
		}
		if i < len(bidPrices) {
			s.Bids[i].Price = bidPrices[i]
		}
		if i < len(bidVolumes) {
			s.Bids[i].Volume = bidVolumes[i]
		}
	}
	return s
}

func (s Snapshot) BestBid() int64 { return s.Bids[0].Price }

func (s Snapshot) BestAsk() int64 { return s.Asks[0].Price }

// Valid reports whether both sides have a best price.
func (s Snapshot) Valid() bool {
	return s.BestBid() > 0 && s.BestAsk() > 0
}

// Mid 返回最优买卖中间价；若缺失任一侧返回 0。
func (s Snapshot) Mid() float64 {
	if !s.Valid() {
		return 0
	}
	return float64(s.BestBid()+s.BestAsk()) / 2
}
