package strategy

import (
	"errors"

	"etf-autotrader/market"
	"etf-autotrader/order"
)

// Correction records how a crossed raw quote was repaired.
type Correction int

const (
	CorrectionNone Correction = iota
	// CorrectionUp: bid pressure dominated, ask pushed above the bid.
	CorrectionUp
	// CorrectionDown: ask pressure dominated, bid pushed below the ask.
	CorrectionDown
	// CorrectionFlat: equal pressures, ask pushed above the bid.
	CorrectionFlat
)

func (c Correction) String() string {
	switch c {
	case CorrectionUp:
		return "up"
	case CorrectionDown:
		return "down"
	case CorrectionFlat:
		return "flat"
	default:
		return "none"
	}
}

// Inputs is what a quote is built from.
type Inputs struct {
	FairValue float64
	Spread    float64 // half spread
	Position  int64   // signed ETF position
}

// Quote represents a bid/ask decision.
type Quote struct {
	Bid        int64
	Ask        int64
	Volume     int64
	Resistance float64
	// Crossed is true when the raw prices crossed and were corrected.
	Crossed    bool
	Correction Correction
}

// Generator 根据公允价、价差、压力与仓位生成对齐 tick 的双边报价。
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(errors.New("invalid quote config"), err)
	}
	return &Generator{cfg: cfg}, nil
}

func (g *Generator) Config() Config { return g.cfg }

// Quote 生成报价。若原始报价交叉，按压力高的一侧判断趋势并修正，
// 同时把该侧压力降 1；修正后 ask 至少比 bid 高一个 tick。
func (g *Generator) Quote(in Inputs, p *Pressure) Quote {
	c := g.cfg
	r := Resistance(in.Position, c.ThreshPosition, c.ResistanceScale, c.ResistanceCap)
	skew := c.ReturnStrength * float64(in.Position)

	pb, pa := float64(p.Bid()), float64(p.Ask())
	bid := market.RoundToTick(in.FairValue-in.Spread+c.SpreadWeight*pb-skew+r, c.TickSize)
	ask := market.RoundToTick(in.FairValue+in.Spread-c.SpreadWeight*pa-skew-r, c.TickSize)

	q := Quote{Bid: bid, Ask: ask, Resistance: r}
	if bid >= ask {
		q.Crossed = true
		width := 2 * in.Spread
		switch {
		case p.Bid() > p.Ask():
			q.Ask = market.CeilToTick(float64(bid)+width, c.TickSize)
			q.Correction = CorrectionUp
			p.Lower(order.SideBuy)
		case p.Ask() > p.Bid():
			q.Bid = market.FloorToTick(float64(ask)-width, c.TickSize)
			q.Correction = CorrectionDown
			p.Lower(order.SideSell)
		default:
			q.Ask = market.CeilToTick(float64(bid)+width, c.TickSize)
			q.Correction = CorrectionFlat
		}
		if q.Ask < q.Bid+c.TickSize {
			q.Ask = q.Bid + c.TickSize
		}
	}
	q.Volume = g.Volume(in.Position, p, q.Crossed)
	return q
}

// Volume 分档下单量：仓位每满 TierSize 手减少 DropPerTier 手，
// 低于 BaseVolume、任一侧压力超过 CalmPressure 或报价交叉时回落到 BaseVolume。
func (g *Generator) Volume(position int64, p *Pressure, crossed bool) int64 {
	c := g.cfg
	if crossed || p.Bid() > c.CalmPressure || p.Ask() > c.CalmPressure {
		return c.BaseVolume
	}
	abs := position
	if abs < 0 {
		abs = -abs
	}
	v := c.HighVolume - (abs/c.TierSize)*c.DropPerTier
	if v < c.BaseVolume {
		return c.BaseVolume
	}
	return v
}
