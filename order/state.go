package order

import "fmt"

// Side is the direction of an order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Sign is +1 for buys and -1 for sells: the position change per lot filled.
func (s Side) Sign() int64 {
	if s == SideBuy {
		return 1
	}
	return -1
}

// Lifespan says how long an order may rest on the book.
type Lifespan int

const (
	// GoodForDay rests until filled or cancelled.
	GoodForDay Lifespan = iota
	// FillAndKill trades what it can immediately; the rest is cancelled.
	FillAndKill
)

func (l Lifespan) String() string {
	if l == FillAndKill {
		return "FILL_AND_KILL"
	}
	return "GOOD_FOR_DAY"
}

// Status represents order lifecycle.
type Status string

const (
	StatusPendingInsert Status = "PENDING_INSERT"
	StatusLive          Status = "LIVE"
	StatusPendingCancel Status = "PENDING_CANCEL"
	StatusGone          Status = "GONE"
)

// CancelReason records why the engine asked for a cancel.
type CancelReason string

const (
	ReasonNone     CancelReason = ""
	ReasonStale    CancelReason = "stale"
	ReasonWash     CancelReason = "wash"
	ReasonRisk     CancelReason = "risk"
	ReasonCapacity CancelReason = "capacity"
	ReasonShutdown CancelReason = "shutdown"
)

// Order is the engine's record of one of its own orders.
type Order struct {
	ID        uint64
	Side      Side
	Price     int64
	Volume    int64 // originally requested
	Remaining int64
	Filled    int64
	Fees      int64
	Lifespan  Lifespan
	Status    Status
	Reason    CancelReason
}

// Resting reports whether the order still counts against the per-side cap.
func (o Order) Resting() bool {
	return o.Status == StatusPendingInsert || o.Status == StatusLive
}
