package sim

import (
	"context"
	"time"

	"etf-autotrader/gateway"
	"etf-autotrader/posttrade"
)

// Result 一次仿真的汇总。
type Result struct {
	Steps    int
	Events   int
	Trades   int64
	Position int64
	PnL      int64
	// PostTrade 仅在设置了 Analyzer 时填充
	PostTrade posttrade.Stats
}

// Runner 把模拟交易所的回报按顺序喂给 handler（单 goroutine，结果可复现）。
type Runner struct {
	Exchange *Exchange
	Handler  gateway.Handler
	// Clock 非 nil 时每步推进 StepInterval
	Clock        *Clock
	StepInterval time.Duration
	Analyzer     *posttrade.Analyzer
	// OnStep 每步结束后调用，可为 nil
	OnStep func(step int)
}

// Run 推进 steps 步；handler 在处理回报时发出的指令会产生新的回报，
// 一直处理到队列为空才进入下一步。
func (r *Runner) Run(ctx context.Context, steps int) (Result, error) {
	res := Result{}
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return r.finish(res), err
		}
		r.Exchange.Step()
		for {
			evs := r.Exchange.Drain()
			if len(evs) == 0 {
				break
			}
			for _, ev := range evs {
				gateway.Dispatch(r.Handler, ev)
			}
			res.Events += len(evs)
		}
		res.Steps++
		if r.Clock != nil {
			r.Clock.Advance(r.StepInterval)
		}
		if r.OnStep != nil {
			r.OnStep(i)
		}
	}
	return r.finish(res), nil
}

func (r *Runner) finish(res Result) Result {
	res.Trades = r.Exchange.Trades()
	res.Position = r.Exchange.Position()
	res.PnL = r.Exchange.PnL()
	if r.Analyzer != nil {
		res.PostTrade = r.Analyzer.Stats()
	}
	return res
}
