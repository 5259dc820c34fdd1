package order

import (
	"errors"
	"fmt"
)

// Gateway 下发下单/撤单指令。指令是单向的：确认只会通过后续的订单回报到达。
type Gateway interface {
	Insert(o Order) error
	Cancel(id uint64) error
}

var (
	ErrUnknownOrder    = errors.New("unknown order")
	ErrRateLimited     = errors.New("message rate limit reached")
	ErrNotCancellable  = errors.New("order not cancellable")
	ErrInvalidOrder    = errors.New("invalid order")
	ErrGatewayRejected = errors.New("gateway rejected command")
	ErrSideFull        = errors.New("side at resting order cap")
)

// UpdateKind classifies what an order status notification meant.
type UpdateKind int

const (
	// UpdateIgnored: the id is not tracked (already gone, or never ours).
	UpdateIgnored UpdateKind = iota
	// UpdateAck: first report for a pending insert, nothing traded.
	UpdateAck
	// UpdatePartial: some volume traded, the order still rests.
	UpdatePartial
	// UpdateFilled: remaining reached zero through trading.
	UpdateFilled
	// UpdateCancelled: remaining reached zero after our cancel request.
	UpdateCancelled
	// UpdateExpired: a fill-and-kill order finished.
	UpdateExpired
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateAck:
		return "ack"
	case UpdatePartial:
		return "partial"
	case UpdateFilled:
		return "filled"
	case UpdateCancelled:
		return "cancelled"
	case UpdateExpired:
		return "expired"
	default:
		return "ignored"
	}
}

// Update is the result of applying a status notification.
type Update struct {
	Kind  UpdateKind
	Order Order
	// Traded is the volume newly traded by this notification.
	Traded int64
}

// Manager 维护引擎自有订单的生命周期：分配 id、限频、下发指令，并根据回报对账。
type Manager struct {
	gw          Gateway
	ids         *IDGenerator
	limiter     *WindowLimiter
	book        *Book
	sm          *StateMachine
	constraints Constraints
	maxSide     int
}

// NewManager creates a manager with its own id generator.
func NewManager(gw Gateway, limiter *WindowLimiter, c Constraints) *Manager {
	if limiter == nil {
		limiter = NewWindowLimiter(1<<30, 0, nil)
	}
	return &Manager{
		gw:          gw,
		ids:         NewIDGenerator(),
		limiter:     limiter,
		book:        NewBook(),
		sm:          NewStateMachine(),
		constraints: c,
	}
}

// SetConstraints 更新价格/数量限制。
func (m *Manager) SetConstraints(c Constraints) { m.constraints = c }

// SetMaxSideOrders caps resting orders per side; 0 disables the cap.
func (m *Manager) SetMaxSideOrders(n int) { m.maxSide = n }

// Limiter exposes the message window shared by inserts and cancels.
func (m *Manager) Limiter() *WindowLimiter { return m.limiter }

// CanSend reports whether at least one message is left in the window.
func (m *Manager) CanSend() bool { return m.limiter.Remaining() > 0 }

// Insert assigns an id, records the order as pending and sends it.
func (m *Manager) Insert(side Side, price, volume int64, lifespan Lifespan) (Order, error) {
	if err := m.constraints.Validate(price, volume); err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if m.maxSide > 0 && lifespan == GoodForDay && m.book.Count(side) >= m.maxSide {
		return Order{}, ErrSideFull
	}
	if !m.limiter.Allow() {
		return Order{}, ErrRateLimited
	}
	o := &Order{
		ID:        m.ids.Next(),
		Side:      side,
		Price:     price,
		Volume:    volume,
		Remaining: volume,
		Lifespan:  lifespan,
		Status:    StatusPendingInsert,
	}
	m.book.Add(o)
	if m.gw != nil {
		if err := m.gw.Insert(*o); err != nil {
			m.book.Remove(o.ID)
			return Order{}, fmt.Errorf("%w: insert %d: %v", ErrGatewayRejected, o.ID, err)
		}
	}
	return *o, nil
}

// Cancel requests cancellation; the order stays tracked as pending-cancel
// until the exchange reports it gone.
func (m *Manager) Cancel(id uint64, reason CancelReason) (Order, error) {
	o, ok := m.book.Get(id)
	if !ok {
		return Order{}, ErrUnknownOrder
	}
	if !m.sm.CanCancel(o.Status) {
		return *o, ErrNotCancellable
	}
	if !m.limiter.Allow() {
		return *o, ErrRateLimited
	}
	if m.gw != nil {
		if err := m.gw.Cancel(id); err != nil {
			return *o, fmt.Errorf("%w: cancel %d: %v", ErrGatewayRejected, id, err)
		}
	}
	o.Status = StatusPendingCancel
	o.Reason = reason
	return *o, nil
}

// CancelOldest cancels the oldest resting order on a side (FIFO eviction).
func (m *Manager) CancelOldest(side Side, reason CancelReason) (Order, error) {
	o, ok := m.book.Oldest(side)
	if !ok {
		return Order{}, ErrUnknownOrder
	}
	return m.Cancel(o.ID, reason)
}

// OnStatus applies an order status notification. Unknown ids are ignored,
// which makes replays of already-processed notifications harmless.
func (m *Manager) OnStatus(id uint64, fillVolume, remaining, fees int64) Update {
	o, ok := m.book.Get(id)
	if !ok {
		return Update{Kind: UpdateIgnored}
	}
	traded := fillVolume - o.Filled
	if traded < 0 {
		traded = 0
	}
	if fillVolume > o.Filled {
		o.Filled = fillVolume
	}
	o.Fees = fees

	if remaining > 0 {
		o.Remaining = remaining
		kind := UpdatePartial
		if traded == 0 {
			kind = UpdateAck
		}
		if o.Status == StatusPendingInsert {
			o.Status = StatusLive
		}
		return Update{Kind: kind, Order: *o, Traded: traded}
	}

	prev := o.Status
	m.book.Remove(id)
	o.Remaining = 0
	o.Status = StatusGone

	kind := UpdateFilled
	switch {
	case o.Lifespan == FillAndKill:
		kind = UpdateExpired
	case prev == StatusPendingCancel && o.Filled < o.Volume:
		kind = UpdateCancelled
	}
	return Update{Kind: kind, Order: *o, Traded: traded}
}

// Drop stops tracking an order without classifying it as filled or cancelled.
func (m *Manager) Drop(id uint64) (Order, bool) {
	o, ok := m.book.Remove(id)
	if !ok {
		return Order{}, false
	}
	o.Status = StatusGone
	return *o, true
}

func (m *Manager) Get(id uint64) (Order, bool) {
	o, ok := m.book.Get(id)
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// Count is the number of resting orders on a side.
func (m *Manager) Count(side Side) int { return m.book.Count(side) }

// OpenOrders counts every tracked order, pending cancels included.
func (m *Manager) OpenOrders() int { return m.book.Open() }

// Volume is the remaining volume tracked on a side.
func (m *Manager) Volume(side Side) int64 { return m.book.Volume(side) }

// TotalVolume is the remaining volume tracked on both sides.
func (m *Manager) TotalVolume() int64 {
	return m.book.Volume(SideBuy) + m.book.Volume(SideSell)
}

// Resting returns copies of the side's resting orders, oldest first.
func (m *Manager) Resting(side Side) []Order {
	src := m.book.Resting(side)
	res := make([]Order, len(src))
	for i, o := range src {
		res[i] = *o
	}
	return res
}

// Crossing returns own opposite-side orders that an order at price would hit.
func (m *Manager) Crossing(side Side, price int64) []Order {
	src := m.book.Crossing(side, price)
	res := make([]Order, len(src))
	for i, o := range src {
		res[i] = *o
	}
	return res
}

// Orders 返回全部跟踪中的订单，按 id 升序。
func (m *Manager) Orders() []Order { return m.book.List() }

// LastID returns the most recently assigned order id.
func (m *Manager) LastID() uint64 { return m.ids.Last() }
