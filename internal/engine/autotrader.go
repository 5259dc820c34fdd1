package engine

import (
	"errors"
	"fmt"
	"time"

	"etf-autotrader/config"
	"etf-autotrader/infrastructure/alert"
	"etf-autotrader/infrastructure/monitor"
	"etf-autotrader/inventory"
	"etf-autotrader/logs"
	"etf-autotrader/market"
	"etf-autotrader/order"
	"etf-autotrader/risk"
	"etf-autotrader/strategy"
)

// Deps 引擎的外部依赖。Gateway 必填，其余可为 nil。
type Deps struct {
	Gateway order.Gateway
	Logger  logs.Logger
	Monitor *monitor.Monitor
	Alerts  *alert.Manager
	Clock   order.Clock
}

// AutoTrader 做市引擎：每个报价标的的盘口更新驱动一次报价周期。
// 所有回调必须在同一个 goroutine 中调用（见 Run），内部不加锁。
type AutoTrader struct {
	cfg        config.EngineConfig
	quoteInst  market.Instrument
	classifier Classifier

	log    logs.Logger
	mon    *monitor.Monitor
	alerts *alert.Manager
	clock  order.Clock

	orders    *order.Manager
	pressure  *strategy.Pressure
	quoter    *strategy.Generator
	governor  *risk.Governor
	estimator *market.Estimator
	inventory *inventory.Tracker
	tape      *market.Tape

	lastSeq  map[market.Instrument]int64
	lastBook market.Snapshot
	lastMid  float64

	// branch 记录当前决策分支，未知错误时打印
	branch string
	// liquidation 是在途的 IOC 平仓单 id
	liquidation uint64
	// liqGate 平仓单成交且发出后尚未收到仓位通知时置位，等到下一次仓位通知才允许再发
	liqGate bool
	// liqUpdates 是发出平仓单时已收到的仓位通知数
	liqUpdates int

	stats Stats
}

// New builds an engine from a validated engine config.
func New(cfg config.EngineConfig, deps Deps) (*AutoTrader, error) {
	if deps.Gateway == nil {
		return nil, errors.New("engine: gateway is required")
	}
	if err := config.ValidateEngine(cfg); err != nil {
		return nil, err
	}
	inst, err := market.ParseInstrument(cfg.QuoteInstrument)
	if err != nil {
		return nil, err
	}
	quoter, err := strategy.NewGenerator(quoteConfig(cfg))
	if err != nil {
		return nil, err
	}
	estimator, err := newEstimator(cfg)
	if err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = logs.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = order.SystemClock
	}

	limiter := order.NewWindowLimiter(cfg.MessageLimit, cfg.MessageWindow, deps.Clock)
	orders := order.NewManager(deps.Gateway, limiter, order.Constraints{TickSize: cfg.TickSize})
	orders.SetMaxSideOrders(cfg.MaxSideOrders)

	e := &AutoTrader{
		cfg:        cfg,
		quoteInst:  inst,
		classifier: NewClassifier(cfg.BenignErrors, cfg.CapacityErrors),
		log:        deps.Logger,
		mon:        deps.Monitor,
		alerts:     deps.Alerts,
		clock:      deps.Clock,
		orders:     orders,
		pressure:   strategy.NewPressure(cfg.MinPressure, cfg.MaxPressure, cfg.ResetInterval),
		quoter:     quoter,
		governor:   risk.NewGovernor(riskLimits(cfg)),
		estimator:  estimator,
		inventory:  &inventory.Tracker{},
		tape:       market.NewTape(),
		lastSeq:    make(map[market.Instrument]int64),
	}
	e.governor.OnStateChange(e.onGovernorState)
	return e, nil
}

func quoteConfig(c config.EngineConfig) strategy.Config {
	return strategy.Config{
		TickSize:        c.TickSize,
		SpreadWeight:    c.SpreadWeight,
		ReturnStrength:  c.ReturnStrength,
		CalmPressure:    c.CalmPressure,
		BaseVolume:      c.BaseVolume,
		HighVolume:      c.HighVolume,
		TierSize:        c.TierSize,
		DropPerTier:     c.DropPerTier,
		ThreshPosition:  c.ThreshPosition,
		ResistanceScale: c.ResistanceScale,
		ResistanceCap:   c.ResistanceCap,
	}
}

func riskLimits(c config.EngineConfig) risk.Limits {
	return risk.Limits{
		HighPosition:  c.HighPosition,
		DumpPosition:  c.DumpPosition,
		PositionLimit: c.PositionLimit,
	}
}

func newEstimator(c config.EngineConfig) (*market.Estimator, error) {
	mode, err := market.ParseFairValueMode(c.FairValueMode)
	if err != nil {
		return nil, err
	}
	window := 0
	if c.TrendEnabled {
		window = c.TrendWindow
	}
	return market.NewEstimator(mode, window, c.TrendMinR2, c.TrendLookahead), nil
}

// Reconfigure 热更新参数。校验失败时保留旧配置。
// 在途订单不受影响；新的上限从下一个周期起生效。
func (e *AutoTrader) Reconfigure(cfg config.EngineConfig) error {
	if err := config.ValidateEngine(cfg); err != nil {
		return err
	}
	inst, err := market.ParseInstrument(cfg.QuoteInstrument)
	if err != nil {
		return err
	}
	quoter, err := strategy.NewGenerator(quoteConfig(cfg))
	if err != nil {
		return err
	}
	old := e.cfg
	if old.FairValueMode != cfg.FairValueMode || old.TrendEnabled != cfg.TrendEnabled ||
		old.TrendWindow != cfg.TrendWindow || old.TrendMinR2 != cfg.TrendMinR2 ||
		old.TrendLookahead != cfg.TrendLookahead {
		est, err := newEstimator(cfg)
		if err != nil {
			return err
		}
		e.estimator = est
	}

	e.cfg = cfg
	e.quoteInst = inst
	e.quoter = quoter
	e.classifier = NewClassifier(cfg.BenignErrors, cfg.CapacityErrors)
	e.pressure.SetBounds(cfg.MinPressure, cfg.MaxPressure, cfg.ResetInterval)
	e.governor.SetLimits(riskLimits(cfg))
	e.orders.SetConstraints(order.Constraints{TickSize: cfg.TickSize})
	e.orders.SetMaxSideOrders(cfg.MaxSideOrders)
	e.orders.Limiter().SetLimit(cfg.MessageLimit, cfg.MessageWindow)

	e.log.Info("engine reconfigured",
		"quote_instrument", inst.String(),
		"pressure_min", cfg.MinPressure,
		"pressure_max", cfg.MaxPressure,
		"dump_position", cfg.DumpPosition,
		"message_limit", cfg.MessageLimit)
	return nil
}

// Config returns the active engine parameters.
func (e *AutoTrader) Config() config.EngineConfig { return e.cfg }

// Orders exposes the order book for inspection (tests, status pages).
func (e *AutoTrader) Orders() []order.Order { return e.orders.Orders() }

// guard 把回调里的 panic 转成日志与告警，避免单条异常消息打挂进程。
func (e *AutoTrader) guard(handler string) {
	r := recover()
	if r == nil {
		return
	}
	e.stats.Panics++
	e.mon.RecordPanic(handler)
	e.log.Error("handler panic recovered", "handler", handler, "branch", e.branch, "panic", fmt.Sprint(r))
	_ = e.alerts.Send(alert.LevelError, "handler panic", map[string]interface{}{
		"handler": handler,
		"branch":  e.branch,
	})
}

func (e *AutoTrader) onGovernorState(old, next risk.State) {
	e.mon.UpdateGovernorState(int(next))
	pos := e.inventory.ETF()
	e.log.Warn("risk state changed", "from", old.String(), "to", next.String(), "etf", pos)
	level := alert.LevelWarning
	switch next {
	case risk.StateDump:
		level = alert.LevelCritical
	case risk.StateNormal:
		level = alert.LevelInfo
	}
	_ = e.alerts.Send(level, "risk state "+next.String(), map[string]interface{}{
		"from": old.String(),
		"etf":  pos,
	})
}

// OnOrderBookUpdate 过滤过期盘口，报价标的的盘口触发一次报价周期。
func (e *AutoTrader) OnOrderBookUpdate(s market.Snapshot) {
	defer e.guard("order_book")

	if last, seen := e.lastSeq[s.Instrument]; seen && s.Sequence <= last {
		e.stats.StaleBooks++
		e.mon.RecordStaleBook()
		e.log.Debug("stale book dropped", "instrument", s.Instrument.String(), "sequence", s.Sequence, "last", last)
		return
	}
	e.lastSeq[s.Instrument] = s.Sequence
	e.mon.RecordBook(s.Instrument.String())

	if s.Instrument != e.quoteInst {
		return
	}
	if !s.Valid() {
		e.log.Debug("one-sided book, skip cycle", "sequence", s.Sequence)
		return
	}
	e.lastBook = s
	e.lastMid = s.Mid()
	e.cycle(s)
}

// OnOrderStatus reconciles one status notification for an own order.
func (e *AutoTrader) OnOrderStatus(id uint64, fillVolume, remaining, fees int64) {
	defer e.guard("order_status")
	e.applyStatus(id, fillVolume, remaining, fees)
}

func (e *AutoTrader) applyStatus(id uint64, fillVolume, remaining, fees int64) order.Update {
	u := e.orders.OnStatus(id, fillVolume, remaining, fees)
	if u.Kind == order.UpdateIgnored {
		return u
	}
	e.mon.RecordStatus(u.Kind.String())
	o := u.Order

	if u.Traded > 0 {
		e.inventory.OnFill(o.Side.Sign()*u.Traded, o.Price)
		e.mon.RecordFill(o.Side.String(), u.Traded, o.Remaining == 0 && o.Filled >= o.Volume)
	}

	switch u.Kind {
	case order.UpdateFilled:
		e.stats.Fills++
		e.pressure.OnFill(o.Side)
		e.log.Debug("order filled", "id", id, "side", o.Side.String(), "price", o.Price, "volume", o.Filled)
	case order.UpdateCancelled:
		e.log.Debug("order cancelled", "id", id, "reason", string(o.Reason), "filled", o.Filled)
	case order.UpdateExpired:
		if id == e.liquidation {
			e.liquidation = 0
			// 仓位通知可能先于最终状态到达，此时持仓已是最新的
			if o.Filled > 0 && e.inventory.Updates() == e.liqUpdates {
				e.liqGate = true
			}
			e.log.Info("liquidation finished", "id", id, "filled", o.Filled, "volume", o.Volume)
		}
	}
	e.mon.UpdateResting(e.orders.Count(order.SideBuy), e.orders.Count(order.SideSell))
	return u
}

// OnPositionChange 仓位以交易所通知为准；期货未完全对冲时告警。
func (e *AutoTrader) OnPositionChange(future, etf int64) {
	defer e.guard("position_change")

	hedged := e.inventory.Apply(future, etf)
	e.liqGate = false
	e.mon.UpdatePosition(etf, future)
	if e.lastMid > 0 {
		_, pnl := e.inventory.Valuation(e.lastMid)
		e.mon.UpdateUnrealizedPnL(pnl)
	}
	if !hedged {
		e.log.Warn("hedge mismatch", "etf", etf, "future", future)
		_ = e.alerts.Send(alert.LevelWarning, "hedge mismatch", map[string]interface{}{
			"etf":    etf,
			"future": future,
		})
	}
}

// OnTradeTicks records market-wide executions. They do not drive quoting.
func (e *AutoTrader) OnTradeTicks(inst market.Instrument, ticks []market.TradeTick) {
	defer e.guard("trade_ticks")
	entry := e.tape.Record(inst, ticks)
	if entry.LastPrice > 0 {
		e.mon.UpdateLastTrade(inst.String(), entry.LastPrice)
	}
}

// OnError 按错误文本分类处理。
func (e *AutoTrader) OnError(id uint64, text string) {
	defer e.guard("error")

	kind := e.classifier.Classify(text)
	e.stats.Errors[kind]++
	e.mon.RecordExchangeError(kind.String())

	switch kind {
	case ErrorBenign:
		e.log.Info("exchange warning", "id", id, "error", text)
		e.dropOrder(id)
	case ErrorCapacity:
		e.log.Warn("exchange capacity error", "id", id, "error", text)
		e.dropOrder(id)
		for _, side := range []order.Side{order.SideBuy, order.SideSell} {
			if _, err := e.orders.CancelOldest(side, order.ReasonCapacity); err == nil {
				e.stats.Cancels++
				e.mon.RecordCancel(string(order.ReasonCapacity))
			}
		}
	default:
		e.log.Error("unexpected exchange error", "id", id, "error", text, "branch", e.branch)
		if o, ok := e.orders.Get(id); ok {
			// 按成交到零处理
			e.applyStatus(id, o.Filled, 0, o.Fees)
		}
	}
}

func (e *AutoTrader) dropOrder(id uint64) {
	if id == 0 {
		return
	}
	if _, ok := e.orders.Drop(id); ok && id == e.liquidation {
		e.liquidation = 0
	}
	e.mon.UpdateResting(e.orders.Count(order.SideBuy), e.orders.Count(order.SideSell))
}

// Shutdown 撤掉全部挂单（尽力而为，受限频约束）。
func (e *AutoTrader) Shutdown() int {
	n := 0
	for _, side := range []order.Side{order.SideBuy, order.SideSell} {
		for _, o := range e.orders.Resting(side) {
			if _, err := e.orders.Cancel(o.ID, order.ReasonShutdown); err != nil {
				e.log.Warn("shutdown cancel failed", "id", o.ID, "error", err)
				continue
			}
			n++
		}
	}
	e.log.Info("engine shutdown", "cancelled", n, "open_orders", e.orders.OpenOrders())
	return n
}

func (e *AutoTrader) now() time.Time { return e.clock.Now() }
