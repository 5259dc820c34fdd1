package engine

import (
	"context"

	"etf-autotrader/config"
	"etf-autotrader/gateway"
	"etf-autotrader/order"
	"etf-autotrader/risk"
)

// Stats 引擎运行计数，单 goroutine 读写。
type Stats struct {
	Cycles       int
	Inserts      int64
	Cancels      int64
	Fills        int64
	Liquidations int64
	StaleBooks   int64
	RateLimited  int64
	Panics       int64
	Errors       [3]int64 // by ErrorKind
}

// Summary is a point-in-time view of the engine for logs and tests.
type Summary struct {
	Stats
	State       risk.State
	ETF         int64
	Future      int64
	BidPressure int
	AskPressure int
	BidOrders   int
	AskOrders   int
	OpenOrders  int
}

func (e *AutoTrader) Stats() Summary {
	return Summary{
		Stats:       e.stats,
		State:       e.governor.State(),
		ETF:         e.inventory.ETF(),
		Future:      e.inventory.Future(),
		BidPressure: e.pressure.Bid(),
		AskPressure: e.pressure.Ask(),
		BidOrders:   e.orders.Count(order.SideBuy),
		AskOrders:   e.orders.Count(order.SideSell),
		OpenOrders:  e.orders.OpenOrders(),
	}
}

// Run 事件循环：逐条分发交易所通知，并在两条通知之间应用配置热更新。
// ctx 取消时先撤掉挂单再返回。updates 可为 nil。
func (e *AutoTrader) Run(ctx context.Context, events <-chan gateway.Event, updates <-chan config.AppConfig) error {
	e.log.Info("engine started",
		"quote_instrument", e.quoteInst.String(),
		"message_limit", e.cfg.MessageLimit,
		"message_window", e.cfg.MessageWindow.String())
	for {
		select {
		case <-ctx.Done():
			e.Shutdown()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				e.Shutdown()
				return ErrFeedClosed
			}
			gateway.Dispatch(e, ev)
		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if err := e.Reconfigure(cfg.Engine); err != nil {
				e.mon.RecordConfigReload(false)
				e.log.Error("config reload rejected", "error", err)
				continue
			}
			e.mon.RecordConfigReload(true)
		}
	}
}
