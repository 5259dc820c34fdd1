package risk

import (
	"fmt"

	"etf-autotrader/market"
	"etf-autotrader/order"
)

// State 仓位风险状态
type State int

const (
	// StateNormal 正常报价
	StateNormal State = iota
	// StateElevated 仓位超过 HighPosition：满额时冻结并偏向平仓
	StateElevated
	// StateDump 只减仓：撤掉全部挂单，仅发 IOC 平仓单
	StateDump
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateElevated:
		return "ELEVATED"
	case StateDump:
		return "DUMP"
	default:
		return "UNKNOWN"
	}
}

// Limits 仓位阈值（手）。
type Limits struct {
	HighPosition  int64
	DumpPosition  int64
	PositionLimit int64
}

// Liquidation describes the single reducing order sent in dump state.
type Liquidation struct {
	Side   order.Side
	Price  int64
	Volume int64
}

// Governor 根据净仓位决定报价模式。引擎单线程调用，无需加锁。
type Governor struct {
	limits   Limits
	state    State
	onChange func(old, new State)
}

func NewGovernor(l Limits) *Governor {
	return &Governor{limits: l}
}

// SetLimits 热更新阈值，下次 Evaluate 生效。
func (g *Governor) SetLimits(l Limits) { g.limits = l }

func (g *Governor) Limits() Limits { return g.limits }

// OnStateChange registers a callback fired when Evaluate changes the state.
func (g *Governor) OnStateChange(fn func(old, new State)) { g.onChange = fn }

func (g *Governor) State() State { return g.state }

// Evaluate classifies the position given the volume the next quote would use.
// Dump engages once a fill of that volume could take |position| past the
// dump level.
func (g *Governor) Evaluate(position, volume int64) State {
	abs := absInt(position)
	next := StateNormal
	switch {
	case abs >= g.limits.DumpPosition || abs+volume > g.limits.DumpPosition:
		next = StateDump
	case abs >= g.limits.HighPosition:
		next = StateElevated
	}
	if next != g.state {
		old := g.state
		g.state = next
		if g.onChange != nil {
			g.onChange(old, next)
		}
	}
	return next
}

// Extends reports whether trading on side grows |position|.
func Extends(side order.Side, position int64) bool {
	if position == 0 {
		return true
	}
	return (side == order.SideBuy) == (position > 0)
}

// CheckInsert 下单前检查：只减仓状态下拒绝加仓方向；
// 同方向的最坏情况（当前仓位 + 该方向全部挂单 + 本单）不得超过 dump 线。
func (g *Governor) CheckInsert(side order.Side, position, sideVolume, volume int64) error {
	if g.state == StateDump && Extends(side, position) {
		return fmt.Errorf("%w: %s %d at position %d", ErrWouldExtend, side, volume, position)
	}
	exposure := side.Sign() * position
	if worst := exposure + sideVolume + volume; worst > g.limits.DumpPosition {
		return fmt.Errorf("%w: %d > %d", ErrWorstCase, worst, g.limits.DumpPosition)
	}
	if lim := g.limits.PositionLimit; lim > 0 && absInt(position+side.Sign()*volume) > lim {
		return fmt.Errorf("%w: %d", ErrPositionLimit, lim)
	}
	return nil
}

// Freeze reports whether a full side should escalate pressure instead of
// rotating its oldest order: the position is already HighPosition or more in
// that side's direction.
func (g *Governor) Freeze(side order.Side, position int64) bool {
	return side.Sign()*position >= g.limits.HighPosition
}

// Liquidate sizes the reducing IOC order: exactly |position| against the best
// opposing price. False when flat or the opposing side of the book is empty.
func (g *Governor) Liquidate(position int64, snap market.Snapshot) (Liquidation, bool) {
	if position == 0 {
		return Liquidation{}, false
	}
	if position > 0 {
		if snap.BestBid() <= 0 {
			return Liquidation{}, false
		}
		return Liquidation{Side: order.SideSell, Price: snap.BestBid(), Volume: position}, true
	}
	if snap.BestAsk() <= 0 {
		return Liquidation{}, false
	}
	return Liquidation{Side: order.SideBuy, Price: snap.BestAsk(), Volume: -position}, true
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
