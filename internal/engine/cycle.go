package engine

import (
	"errors"

	"etf-autotrader/market"
	"etf-autotrader/order"
	"etf-autotrader/risk"
	"etf-autotrader/strategy"
)

// cycle 一次报价周期：公允价 -> 报价 -> 风控状态 -> 每侧下单/撤单。
func (e *AutoTrader) cycle(s market.Snapshot) {
	start := e.now()
	e.stats.Cycles++

	e.branch = "fair value"
	est, ok := e.estimator.Estimate(s)
	if !ok {
		return
	}
	spread := market.HalfSpread(s, e.cfg.MinSpread)
	pos := e.inventory.ETF()

	if e.pressure.Tick() {
		e.log.Info("pressure reset", "cycle", e.stats.Cycles)
	}

	e.branch = "quote"
	q := e.quoter.Quote(strategy.Inputs{FairValue: est.Value, Spread: spread, Position: pos}, e.pressure)
	if q.Crossed {
		e.log.Debug("quote corrected", "correction", q.Correction.String(), "bid", q.Bid, "ask", q.Ask)
	}
	if est.Projected {
		e.log.Debug("trend projection", "raw", est.Raw, "value", est.Value, "slope", est.Trend.Slope, "r2", est.Trend.R2)
	}
	e.mon.UpdateQuote(est.Value, spread, q.Bid, q.Ask)

	e.branch = "risk"
	state := e.governor.Evaluate(pos, q.Volume)
	if state == risk.StateDump {
		e.dump(s, pos)
	} else {
		e.quoteSide(order.SideBuy, q.Bid, q.Volume, pos)
		e.quoteSide(order.SideSell, q.Ask, q.Volume, pos)
	}

	e.mon.UpdatePressure(e.pressure.Bid(), e.pressure.Ask())
	e.mon.UpdateResting(e.orders.Count(order.SideBuy), e.orders.Count(order.SideSell))
	e.mon.ObserveCycle(e.now().Sub(start).Seconds())

	if n := e.cfg.StatusLogInterval; n > 0 && e.stats.Cycles%n == 0 {
		e.logStatus(q, spread, state)
	}
}

// quoteSide 处理一侧：防自成交 -> 未满额则下单 -> 满额则冻结或轮换最旧订单。
func (e *AutoTrader) quoteSide(side order.Side, price, volume, pos int64) {
	e.branch = "wash " + side.String()
	if crossing := e.orders.Crossing(side, price); len(crossing) > 0 {
		limit := e.cfg.MaxOpenOrders - e.orders.OpenOrders()
		if limit < 1 {
			limit = 1
		}
		for i, o := range crossing {
			if i >= limit {
				break
			}
			if !e.cancel(o.ID, order.ReasonWash) {
				break
			}
		}
		e.log.Debug("insert skipped, would cross own order", "side", side.String(), "price", price, "crossing", len(crossing))
		return
	}

	if e.orders.Count(side) >= e.cfg.MaxSideOrders {
		if e.governor.Freeze(side, pos) {
			e.branch = "freeze " + side.String()
			e.pressure.Lower(side)
			e.pressure.Raise(side.Opposite())
			return
		}
		e.branch = "evict " + side.String()
		if o, err := e.orders.CancelOldest(side, order.ReasonStale); err == nil {
			e.stats.Cancels++
			e.pressure.OnCancel(side)
			e.mon.RecordCancel(string(order.ReasonStale))
			e.log.Debug("oldest order evicted", "id", o.ID, "side", side.String(), "price", o.Price)
		} else {
			e.sendFailed(err, "evict", side)
		}
		return
	}

	e.branch = "insert " + side.String()
	if e.orders.OpenOrders() >= e.cfg.MaxOpenOrders {
		e.log.Debug("insert skipped, open order cap", "side", side.String(), "open", e.orders.OpenOrders())
		return
	}
	if total := e.orders.TotalVolume(); total > e.cfg.MaxActiveVolume-2*volume {
		e.log.Debug("insert skipped, active volume", "side", side.String(), "active", total)
		return
	}
	if err := e.governor.CheckInsert(side, pos, e.orders.Volume(side), volume); err != nil {
		e.log.Debug("insert skipped by risk", "side", side.String(), "error", err)
		return
	}
	o, err := e.orders.Insert(side, price, volume, order.GoodForDay)
	if err != nil {
		e.sendFailed(err, "insert", side)
		return
	}
	e.stats.Inserts++
	e.pressure.OnInsert(side)
	e.mon.RecordInsert(side.String(), o.Lifespan.String())
}

// dump 只减仓：撤掉全部挂单，并保持至多一笔 IOC 平仓单在途。
func (e *AutoTrader) dump(s market.Snapshot, pos int64) {
	e.branch = "dump cancel"
	for _, side := range []order.Side{order.SideBuy, order.SideSell} {
		for _, o := range e.orders.Resting(side) {
			if o.Lifespan == order.FillAndKill {
				continue
			}
			if !e.cancel(o.ID, order.ReasonRisk) {
				return
			}
			if risk.Extends(side, pos) {
				e.pressure.OnCancel(side)
			}
		}
	}

	e.branch = "dump liquidate"
	if e.liquidation != 0 {
		if _, ok := e.orders.Get(e.liquidation); ok {
			return
		}
		e.liquidation = 0
	}
	if e.liqGate {
		return
	}
	liq, ok := e.governor.Liquidate(pos, s)
	if !ok {
		return
	}
	o, err := e.orders.Insert(liq.Side, liq.Price, liq.Volume, order.FillAndKill)
	if err != nil {
		e.sendFailed(err, "liquidate", liq.Side)
		return
	}
	e.liquidation = o.ID
	e.liqUpdates = e.inventory.Updates()
	e.stats.Inserts++
	e.stats.Liquidations++
	e.mon.RecordInsert(liq.Side.String(), o.Lifespan.String())
	e.mon.RecordLiquidation()
	e.log.Warn("liquidation sent", "id", o.ID, "side", liq.Side.String(), "price", liq.Price, "volume", liq.Volume, "etf", pos)
}

func (e *AutoTrader) cancel(id uint64, reason order.CancelReason) bool {
	o, err := e.orders.Cancel(id, reason)
	if err != nil {
		e.sendFailed(err, "cancel", o.Side)
		return !errors.Is(err, order.ErrRateLimited)
	}
	e.stats.Cancels++
	e.mon.RecordCancel(string(reason))
	return true
}

func (e *AutoTrader) sendFailed(err error, action string, side order.Side) {
	switch {
	case errors.Is(err, order.ErrRateLimited):
		e.stats.RateLimited++
		e.mon.RecordRateLimited()
		e.log.Debug("rate limited", "action", action, "side", side.String())
	case errors.Is(err, order.ErrNotCancellable), errors.Is(err, order.ErrUnknownOrder):
		e.log.Debug("command skipped", "action", action, "side", side.String(), "error", err)
	default:
		e.log.Warn("command failed", "action", action, "side", side.String(), "error", err, "branch", e.branch)
	}
}

func (e *AutoTrader) logStatus(q strategy.Quote, spread float64, state risk.State) {
	bid, ask := e.pressure.Stats(order.SideBuy), e.pressure.Stats(order.SideSell)
	e.log.Info("status",
		"cycle", e.stats.Cycles,
		"state", state.String(),
		"etf", e.inventory.ETF(),
		"future", e.inventory.Future(),
		"bid", q.Bid,
		"ask", q.Ask,
		"volume", q.Volume,
		"half_spread", spread,
		"bid_pressure", e.pressure.Bid(),
		"ask_pressure", e.pressure.Ask(),
		"bid_orders", e.orders.Count(order.SideBuy),
		"ask_orders", e.orders.Count(order.SideSell),
		"messages_used", e.orders.Limiter().Used(),
		"bid_accepted", bid.Accepted,
		"ask_accepted", ask.Accepted,
	)
}
