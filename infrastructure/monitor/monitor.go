package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor Prometheus监控指标收集器。所有方法对 nil 接收者安全，
// 未配置监控时引擎可直接传 nil。
type Monitor struct {
	registry *prometheus.Registry

	// 订单指标
	ordersInserted  *prometheus.CounterVec
	ordersCancelled *prometheus.CounterVec
	ordersFilled    *prometheus.CounterVec
	tradedVolume    *prometheus.CounterVec
	statusUpdates   *prometheus.CounterVec
	rateLimited     prometheus.Counter
	restingOrders   *prometheus.GaugeVec

	// 报价指标
	fairValue  prometheus.Gauge
	halfSpread prometheus.Gauge
	quoteBid   prometheus.Gauge
	quoteAsk   prometheus.Gauge
	pressure   *prometheus.GaugeVec
	cycleTime  prometheus.Histogram

	// 仓位与风控
	position      *prometheus.GaugeVec
	unrealizedPnL prometheus.Gauge
	governorState prometheus.Gauge
	liquidations  prometheus.Counter

	// 行情
	bookUpdates    *prometheus.CounterVec
	staleBooks     prometheus.Counter
	lastTradePrice *prometheus.GaugeVec

	// 系统指标
	exchangeErrors *prometheus.CounterVec
	handlerPanics  *prometheus.CounterVec
	wsConnections  prometheus.Counter
	wsDisconnects  prometheus.Counter
	configReloads  *prometheus.CounterVec
}

// Config 监控配置
type Config struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "autotrader",
		Subsystem: "etf",
	}
}

// New 创建新的Monitor实例，使用独立 registry
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		})
	}
	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		}, labels)
	}

	return &Monitor{
		registry: reg,

		ordersInserted:  counterVec("orders_inserted_total", "下单指令总数", "side", "lifespan"),
		ordersCancelled: counterVec("orders_cancelled_total", "撤单指令总数", "reason"),
		ordersFilled:    counterVec("orders_filled_total", "完全成交订单数", "side"),
		tradedVolume:    counterVec("traded_volume_total", "累计成交量（手）", "side"),
		statusUpdates:   counterVec("status_updates_total", "订单回报总数", "kind"),
		rateLimited:     counter("rate_limited_total", "因限频推迟的指令数"),
		restingOrders:   gaugeVec("resting_orders", "当前挂单数", "side"),

		fairValue:  gauge("fair_value", "公允价"),
		halfSpread: gauge("half_spread", "半价差"),
		quoteBid:   gauge("quote_bid", "最新买价报价"),
		quoteAsk:   gauge("quote_ask", "最新卖价报价"),
		pressure:   gaugeVec("pressure", "单边压力值", "side"),
		cycleTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cycle_seconds",
			Help:      "单次报价决策耗时（秒）",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		position:      gaugeVec("position", "当前持仓（手）", "instrument"),
		unrealizedPnL: gauge("unrealized_pnl", "ETF 未实现盈亏"),
		governorState: gauge("governor_state", "风控状态(0=正常,1=高仓位,2=只减仓)"),
		liquidations:  counter("liquidations_total", "IOC 平仓单总数"),

		bookUpdates:    counterVec("book_updates_total", "盘口更新总数", "instrument"),
		staleBooks:     counter("stale_books_total", "因序号过期丢弃的盘口更新"),
		lastTradePrice: gaugeVec("last_trade_price", "最新成交价", "instrument"),

		exchangeErrors: counterVec("exchange_errors_total", "交易所错误通知", "kind"),
		handlerPanics:  counterVec("handler_panics_total", "处理函数 panic 次数", "handler"),
		wsConnections:  counter("ws_connections_total", "WebSocket连接次数"),
		wsDisconnects:  counter("ws_disconnects_total", "WebSocket断开次数"),
		configReloads:  counterVec("config_reloads_total", "配置热更新次数", "result"),
	}
}

// 订单相关方法
func (m *Monitor) RecordInsert(side, lifespan string) {
	if m == nil {
		return
	}
	m.ordersInserted.WithLabelValues(side, lifespan).Inc()
}

func (m *Monitor) RecordCancel(reason string) {
	if m == nil {
		return
	}
	m.ordersCancelled.WithLabelValues(reason).Inc()
}

func (m *Monitor) RecordFill(side string, volume int64, complete bool) {
	if m == nil {
		return
	}
	if volume > 0 {
		m.tradedVolume.WithLabelValues(side).Add(float64(volume))
	}
	if complete {
		m.ordersFilled.WithLabelValues(side).Inc()
	}
}

func (m *Monitor) RecordStatus(kind string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(kind).Inc()
}

func (m *Monitor) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Monitor) UpdateResting(bids, asks int) {
	if m == nil {
		return
	}
	m.restingOrders.WithLabelValues("BUY").Set(float64(bids))
	m.restingOrders.WithLabelValues("SELL").Set(float64(asks))
}

// 报价相关方法
func (m *Monitor) UpdateQuote(fairValue, halfSpread float64, bid, ask int64) {
	if m == nil {
		return
	}
	m.fairValue.Set(fairValue)
	m.halfSpread.Set(halfSpread)
	m.quoteBid.Set(float64(bid))
	m.quoteAsk.Set(float64(ask))
}

func (m *Monitor) UpdatePressure(bid, ask int) {
	if m == nil {
		return
	}
	m.pressure.WithLabelValues("BUY").Set(float64(bid))
	m.pressure.WithLabelValues("SELL").Set(float64(ask))
}

func (m *Monitor) ObserveCycle(seconds float64) {
	if m == nil {
		return
	}
	m.cycleTime.Observe(seconds)
}

// 仓位与风控
func (m *Monitor) UpdatePosition(etf, future int64) {
	if m == nil {
		return
	}
	m.position.WithLabelValues("ETF").Set(float64(etf))
	m.position.WithLabelValues("FUTURE").Set(float64(future))
}

func (m *Monitor) UpdateUnrealizedPnL(v float64) {
	if m == nil {
		return
	}
	m.unrealizedPnL.Set(v)
}

func (m *Monitor) UpdateGovernorState(state int) {
	if m == nil {
		return
	}
	m.governorState.Set(float64(state))
}

func (m *Monitor) RecordLiquidation() {
	if m == nil {
		return
	}
	m.liquidations.Inc()
}

// 行情
func (m *Monitor) RecordBook(instrument string) {
	if m == nil {
		return
	}
	m.bookUpdates.WithLabelValues(instrument).Inc()
}

func (m *Monitor) RecordStaleBook() {
	if m == nil {
		return
	}
	m.staleBooks.Inc()
}

func (m *Monitor) UpdateLastTrade(instrument string, price int64) {
	if m == nil {
		return
	}
	m.lastTradePrice.WithLabelValues(instrument).Set(float64(price))
}

// 系统相关方法
func (m *Monitor) RecordExchangeError(kind string) {
	if m == nil {
		return
	}
	m.exchangeErrors.WithLabelValues(kind).Inc()
}

func (m *Monitor) RecordPanic(handler string) {
	if m == nil {
		return
	}
	m.handlerPanics.WithLabelValues(handler).Inc()
}

func (m *Monitor) RecordWSConnection() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Monitor) RecordWSDisconnect() {
	if m == nil {
		return
	}
	m.wsDisconnects.Inc()
}

func (m *Monitor) RecordConfigReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.configReloads.WithLabelValues(result).Inc()
}

// Handler 返回HTTP handler用于暴露指标
func (m *Monitor) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回prometheus registry
func (m *Monitor) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
