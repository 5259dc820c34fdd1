package gateway

import "etf-autotrader/market"

// Handler 交易所回调接口；引擎实现它，所有回调在同一个 goroutine 中执行。
type Handler interface {
	OnOrderBookUpdate(s market.Snapshot)
	OnOrderStatus(id uint64, fillVolume, remainingVolume, fees int64)
	OnPositionChange(future, etf int64)
	OnTradeTicks(inst market.Instrument, ticks []market.TradeTick)
	OnError(id uint64, text string)
}

// Event is one decoded inbound notification.
type Event struct {
	Type       MessageType
	Book       market.Snapshot
	Status     OrderStatus
	Position   PositionChange
	Instrument market.Instrument
	Trades     []market.TradeTick
	Error      ErrorMessage
}

// Dispatch 把事件交给对应的回调。
func Dispatch(h Handler, ev Event) {
	switch ev.Type {
	case MsgOrderBook:
		h.OnOrderBookUpdate(ev.Book)
	case MsgOrderStatus:
		h.OnOrderStatus(ev.Status.ClientOrderID, ev.Status.FillVolume, ev.Status.RemainingVolume, ev.Status.Fees)
	case MsgPositionChange:
		h.OnPositionChange(ev.Position.Future, ev.Position.ETF)
	case MsgTradeTicks:
		h.OnTradeTicks(ev.Instrument, ev.Trades)
	case MsgError:
		h.OnError(ev.Error.ClientOrderID, ev.Error.Text)
	}
}
