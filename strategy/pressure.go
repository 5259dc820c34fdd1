package strategy

import "etf-autotrader/order"

// SideStats 单边统计：下单次数、成交（被接受）次数、撤单次数。
type SideStats struct {
	Inserts  int
	Accepted int
	Cancels  int
}

// Pressure 每个方向一个有界整数压力值。
// 压力越高，该方向报价越靠近对手方；成交 -1，因陈旧或风控撤单 +1。
// 每 resetEvery 个周期压力与统计回到初始值。
type Pressure struct {
	min, max   int
	values     [2]int
	stats      [2]SideStats
	resetEvery int
	cycles     int
}

// NewPressure creates a controller; both sides start at 0 clamped into bounds.
func NewPressure(min, max, resetEvery int) *Pressure {
	if max < min {
		max = min
	}
	p := &Pressure{min: min, max: max, resetEvery: resetEvery}
	p.Reset()
	return p
}

func (p *Pressure) clamp(v int) int {
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

func (p *Pressure) Get(side order.Side) int { return p.values[side] }

func (p *Pressure) Bid() int { return p.values[order.SideBuy] }

func (p *Pressure) Ask() int { return p.values[order.SideSell] }

// Raise moves a side's pressure up by one; false when already at the ceiling.
func (p *Pressure) Raise(side order.Side) bool {
	v := p.clamp(p.values[side] + 1)
	changed := v != p.values[side]
	p.values[side] = v
	return changed
}

// Lower moves a side's pressure down by one; false when already at the floor.
func (p *Pressure) Lower(side order.Side) bool {
	v := p.clamp(p.values[side] - 1)
	changed := v != p.values[side]
	p.values[side] = v
	return changed
}

// OnFill 一笔订单完全成交。
func (p *Pressure) OnFill(side order.Side) {
	p.stats[side].Accepted++
	p.Lower(side)
}

// OnCancel 因陈旧或风控主动撤单。
func (p *Pressure) OnCancel(side order.Side) {
	p.stats[side].Cancels++
	p.Raise(side)
}

// OnInsert records an insert for the acceptance ratio.
func (p *Pressure) OnInsert(side order.Side) {
	p.stats[side].Inserts++
}

// Tick advances the cycle counter and reports whether a reset happened.
func (p *Pressure) Tick() bool {
	p.cycles++
	if p.resetEvery > 0 && p.cycles%p.resetEvery == 0 {
		p.Reset()
		return true
	}
	return false
}

// Reset 压力回到初始值，统计清零；周期计数保留。
func (p *Pressure) Reset() {
	for i := range p.values {
		p.values[i] = p.clamp(0)
	}
	p.stats = [2]SideStats{}
}

// SetBounds applies new limits and re-clamps current values.
func (p *Pressure) SetBounds(min, max, resetEvery int) {
	if max < min {
		max = min
	}
	p.min, p.max, p.resetEvery = min, max, resetEvery
	for i := range p.values {
		p.values[i] = p.clamp(p.values[i])
	}
}

func (p *Pressure) Bounds() (int, int) { return p.min, p.max }

func (p *Pressure) Stats(side order.Side) SideStats { return p.stats[side] }

func (p *Pressure) Cycles() int { return p.cycles }
