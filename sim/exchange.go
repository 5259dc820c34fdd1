package sim

import (
	"errors"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"etf-autotrader/gateway"
	"etf-autotrader/market"
	"etf-autotrader/order"
	"etf-autotrader/posttrade"
)

// ExchangeConfig 描述模拟交易所的行情与撮合参数。
type ExchangeConfig struct {
	Seed       uint64
	StartPrice int64
	TickSize   int64
	// HalfSpreadTicks 是市场最优价到中间价的 tick 数
	HalfSpreadTicks int64
	// MoveProbability 每步中间价移动一个 tick 的概率
	MoveProbability float64
	// FillProbability 挂在最优价（或更优）的订单每步被动成交的概率
	FillProbability float64
	LevelVolume     int64

	MaxOpenOrders   int
	MaxActiveVolume int64
	// FeeBps 按成交额收取的手续费（基点），主动成交收取，被动成交返还一半
	FeeBps int64
	// StepInterval 每步对应的仿真时间
	StepInterval time.Duration
}

func DefaultExchangeConfig() ExchangeConfig {
	return ExchangeConfig{
		Seed:            1,
		StartPrice:      10000,
		TickSize:        100,
		HalfSpreadTicks: 1,
		MoveProbability: 0.3,
		FillProbability: 0.2,
		LevelVolume:     100,
		MaxOpenOrders:   10,
		MaxActiveVolume: 200,
		FeeBps:          2,
		StepInterval:    250 * time.Millisecond,
	}
}

type restingOrder struct {
	order.Order
	fees int64
}

// Exchange 内存撮合：实现 order.Gateway，回报按顺序排队，由 Drain 取出。
// 期货自动对冲，始终为 -ETF。
type Exchange struct {
	cfg ExchangeConfig
	rng *rand.Rand

	mu      sync.Mutex
	mid     int64
	seq     int64
	book    market.Snapshot
	orders  map[uint64]*restingOrder
	etf     int64
	cash    int64
	pending []gateway.Event
	trades  int64

	analyzer *posttrade.Analyzer
}

var ErrDuplicateOrder = errors.New("duplicate client order id")

func NewExchange(cfg ExchangeConfig) *Exchange {
	if cfg.TickSize <= 0 {
		cfg.TickSize = 100
	}
	if cfg.HalfSpreadTicks <= 0 {
		cfg.HalfSpreadTicks = 1
	}
	if cfg.LevelVolume <= 0 {
		cfg.LevelVolume = 100
	}
	x := &Exchange{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		mid:    cfg.StartPrice,
		orders: make(map[uint64]*restingOrder),
	}
	x.book = x.buildBook(market.InstrumentETF)
	return x
}

// SetAnalyzer 注册成交后分析器；每步以新的中间价采样。
func (x *Exchange) SetAnalyzer(a *posttrade.Analyzer) {
	x.mu.Lock()
	x.analyzer = a
	x.mu.Unlock()
}

// Step 推进一步：中间价随机游走，发布两个标的的盘口，再撮合挂单。
func (x *Exchange) Step() {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.rng.Float64() < x.cfg.MoveProbability {
		if x.rng.IntN(2) == 0 {
			x.mid -= x.cfg.TickSize
		} else {
			x.mid += x.cfg.TickSize
		}
		if x.mid <= x.cfg.TickSize*(x.cfg.HalfSpreadTicks+market.BookDepth) {
			x.mid += x.cfg.TickSize
		}
	}

	if x.analyzer != nil {
		x.analyzer.OnMid(float64(x.mid))
	}

	fut := x.buildBook(market.InstrumentFuture)
	x.emit(gateway.Event{Type: gateway.MsgOrderBook, Book: fut})
	x.book = x.buildBook(market.InstrumentETF)
	x.emit(gateway.Event{Type: gateway.MsgOrderBook, Book: x.book})

	var ticks []market.TradeTick
	moved := false
	for _, id := range x.sortedIDs() {
		o := x.orders[id]
		if !x.touches(o.Order) || x.rng.Float64() >= x.cfg.FillProbability {
			continue
		}
		qty := 1 + x.rng.Int64N(o.Remaining)
		x.fill(o, qty, o.Price, false)
		ticks = append(ticks, market.TradeTick{Price: o.Price, Volume: qty})
		moved = true
	}
	if len(ticks) > 0 {
		x.emit(gateway.Event{Type: gateway.MsgTradeTicks, Instrument: market.InstrumentETF, Trades: ticks})
	}
	if moved {
		x.emitPosition()
	}
}

func (x *Exchange) buildBook(inst market.Instrument) market.Snapshot {
	x.seq++
	s := market.Snapshot{Instrument: inst, Sequence: x.seq}
	half := x.cfg.HalfSpreadTicks * x.cfg.TickSize
	for i := 0; i < market.BookDepth; i++ {
		step := int64(i) * x.cfg.TickSize
		vol := x.cfg.LevelVolume/2 + x.rng.Int64N(x.cfg.LevelVolume)
		s.Bids[i] = market.Level{Price: x.mid - half - step, Volume: vol}
		s.Asks[i] = market.Level{Price: x.mid + half + step, Volume: vol}
	}
	return s
}

// touches 挂单价位于或优于市场最优价。
func (x *Exchange) touches(o order.Order) bool {
	if o.Side == order.SideBuy {
		return o.Price >= x.book.BestBid()
	}
	return o.Price <= x.book.BestAsk()
}

func (x *Exchange) marketable(o order.Order) (int64, bool) {
	if o.Side == order.SideBuy && o.Price >= x.book.BestAsk() {
		return x.book.BestAsk(), true
	}
	if o.Side == order.SideSell && o.Price <= x.book.BestBid() {
		return x.book.BestBid(), true
	}
	return 0, false
}

func (x *Exchange) selfCross(o order.Order) bool {
	for _, r := range x.orders {
		if r.Side == o.Side {
			continue
		}
		if o.Side == order.SideBuy && r.Price <= o.Price {
			return true
		}
		if o.Side == order.SideSell && r.Price >= o.Price {
			return true
		}
	}
	return false
}

// Insert 实现 order.Gateway。拒单以 error 消息回报，不返回错误。
func (x *Exchange) Insert(o order.Order) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, dup := x.orders[o.ID]; dup {
		return ErrDuplicateOrder
	}
	if x.cfg.MaxOpenOrders > 0 && len(x.orders) >= x.cfg.MaxOpenOrders {
		x.reject(o.ID, "order rejected: active order count limit exceeded")
		return nil
	}
	if x.cfg.MaxActiveVolume > 0 && x.activeVolume()+o.Volume > x.cfg.MaxActiveVolume {
		x.reject(o.ID, "order rejected: active volume limit exceeded")
		return nil
	}
	if x.selfCross(o) {
		x.reject(o.ID, "order rejected: would cross own order (self-trade)")
		return nil
	}

	r := &restingOrder{Order: o}
	r.Remaining = o.Volume
	if px, ok := x.marketable(o); ok {
		avail := x.book.Asks[0].Volume
		if o.Side == order.SideSell {
			avail = x.book.Bids[0].Volume
		}
		qty := min(avail, r.Remaining)
		x.fill(r, qty, px, true)
		x.emit(gateway.Event{Type: gateway.MsgTradeTicks, Instrument: market.InstrumentETF,
			Trades: []market.TradeTick{{Price: px, Volume: qty}}})
		if r.Remaining == 0 {
			x.emitPosition()
			return nil
		}
		if o.Lifespan == order.FillAndKill {
			x.status(r, 0)
			x.emitPosition()
			return nil
		}
		x.orders[o.ID] = r
		x.status(r, r.Remaining)
		x.emitPosition()
		return nil
	}
	if o.Lifespan == order.FillAndKill {
		x.status(r, 0)
		return nil
	}
	x.orders[o.ID] = r
	x.status(r, r.Remaining)
	return nil
}

// Cancel 实现 order.Gateway；未知 id 静默忽略（可能已成交）。
func (x *Exchange) Cancel(id uint64) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	r, ok := x.orders[id]
	if !ok {
		return nil
	}
	delete(x.orders, id)
	x.status(r, 0)
	return nil
}

func (x *Exchange) fill(r *restingOrder, qty, price int64, aggressive bool) {
	r.Filled += qty
	r.Remaining -= qty
	notional := qty * price
	fee := notional * x.cfg.FeeBps / 10000
	if !aggressive {
		fee = -fee / 2
	}
	r.fees += fee
	x.cash -= r.Side.Sign()*notional + fee
	x.etf += r.Side.Sign() * qty
	x.trades++
	if x.analyzer != nil {
		x.analyzer.OnFill(r.ID, r.Side, price, qty)
	}
	if r.Remaining == 0 {
		delete(x.orders, r.ID)
		x.status(r, 0)
		return
	}
	if !aggressive {
		x.status(r, r.Remaining)
	}
}

func (x *Exchange) status(r *restingOrder, remaining int64) {
	x.emit(gateway.Event{Type: gateway.MsgOrderStatus, Status: gateway.OrderStatus{
		ClientOrderID:   r.ID,
		FillVolume:      r.Filled,
		RemainingVolume: remaining,
		Fees:            r.fees,
	}})
}

func (x *Exchange) reject(id uint64, text string) {
	x.emit(gateway.Event{Type: gateway.MsgError, Error: gateway.ErrorMessage{ClientOrderID: id, Text: text}})
}

func (x *Exchange) emitPosition() {
	x.emit(gateway.Event{Type: gateway.MsgPositionChange, Position: gateway.PositionChange{Future: -x.etf, ETF: x.etf}})
}

func (x *Exchange) emit(ev gateway.Event) { x.pending = append(x.pending, ev) }

func (x *Exchange) activeVolume() int64 {
	var v int64
	for _, r := range x.orders {
		v += r.Remaining
	}
	return v
}

func (x *Exchange) sortedIDs() []uint64 {
	return slices.Sorted(maps.Keys(x.orders))
}

// Drain 取出并清空排队的回报。
func (x *Exchange) Drain() []gateway.Event {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := x.pending
	x.pending = nil
	return out
}

// Position returns the simulated ETF position.
func (x *Exchange) Position() int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.etf
}

// Open returns the number of resting orders at the exchange.
func (x *Exchange) Open() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.orders)
}

// PnL marks the ETF position at the current mid; the futures hedge is
// treated as flat.
func (x *Exchange) PnL() int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.cash + x.etf*x.mid
}

// Trades is the number of fills so far.
func (x *Exchange) Trades() int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.trades
}
