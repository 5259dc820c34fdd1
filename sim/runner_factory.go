package sim

import (
	"time"

	"etf-autotrader/config"
	"etf-autotrader/internal/engine"
	"etf-autotrader/posttrade"
)

// BuildRunner 组装模拟交易所与引擎；deps.Gateway 会被替换为模拟交易所。
// 交易所的容量上限默认跟随引擎配置；未提供时钟时使用仿真时钟。
func BuildRunner(ex ExchangeConfig, cfg config.EngineConfig, deps engine.Deps) (*Runner, *engine.AutoTrader, error) {
	if ex.TickSize <= 0 {
		ex.TickSize = cfg.TickSize
	}
	if ex.MaxOpenOrders <= 0 {
		ex.MaxOpenOrders = cfg.MaxOpenOrders
	}
	if ex.MaxActiveVolume <= 0 {
		ex.MaxActiveVolume = cfg.MaxActiveVolume
	}
	x := NewExchange(ex)
	r := &Runner{Exchange: x, StepInterval: ex.StepInterval}
	if r.StepInterval <= 0 {
		r.StepInterval = 250 * time.Millisecond
	}
	// markout 窗口约 1s / 5s
	short := int(time.Second / r.StepInterval)
	r.Analyzer = posttrade.NewAnalyzer(max(short, 1), max(5*short, 1), 10000)
	x.SetAnalyzer(r.Analyzer)
	if deps.Clock == nil {
		r.Clock = NewClock(time.Unix(0, 0))
		deps.Clock = r.Clock
	}
	deps.Gateway = x
	e, err := engine.New(cfg, deps)
	if err != nil {
		return nil, nil, err
	}
	r.Handler = e
	return r, e, nil
}
