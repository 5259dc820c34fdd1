package posttrade

import (
	"sync"

	"etf-autotrader/order"
)

// Fill 一笔成交，以及成交后两个观察窗口的中间价。
type Fill struct {
	OrderID uint64
	Side    order.Side
	Price   int64
	Volume  int64
	Step    int
	// MidShort/MidLong 为 0 表示尚未采样
	MidShort float64
	MidLong  float64
}

// Markout 是成交后中间价相对成交价的变化，按己方方向计：正数有利。
func (f Fill) Markout(mid float64) float64 {
	return float64(f.Side.Sign()) * (mid - float64(f.Price))
}

// Stats contains statistics computed by the analyzer.
type Stats struct {
	TotalFills    int
	AnalyzedFills int
	// AdverseSelectionRate 短窗口 markout 为负的成交占比
	AdverseSelectionRate float64
	AvgMarkoutShort      float64
	AvgMarkoutLong       float64
}

// Analyzer 按步计量的成交后分析（逆向选择）。不依赖墙钟，仿真结果可复现。
type Analyzer struct {
	mu      sync.RWMutex
	short   int
	long    int
	step    int
	pending []*Fill
	done    []Fill
	limit   int
}

// NewAnalyzer samples the mid short and long steps after each fill. At most
// limit analysed fills are kept (0 keeps everything).
func NewAnalyzer(short, long, limit int) *Analyzer {
	if short <= 0 {
		short = 1
	}
	if long < short {
		long = short
	}
	return &Analyzer{short: short, long: long, limit: limit}
}

// OnFill records a fill at the current step.
func (a *Analyzer) OnFill(id uint64, side order.Side, price, volume int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, &Fill{OrderID: id, Side: side, Price: price, Volume: volume, Step: a.step})
}

// OnMid advances one step and samples every fill whose window ends now.
func (a *Analyzer) OnMid(mid float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.step++
	keep := a.pending[:0]
	for _, f := range a.pending {
		age := a.step - f.Step
		if age == a.short {
			f.MidShort = mid
		}
		if age >= a.long {
			f.MidLong = mid
			a.done = append(a.done, *f)
			continue
		}
		keep = append(keep, f)
	}
	a.pending = keep
	if a.limit > 0 && len(a.done) > a.limit {
		a.done = a.done[len(a.done)-a.limit:]
	}
}

// Stats computes statistics over fills whose long window has elapsed.
func (a *Analyzer) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := Stats{TotalFills: len(a.done) + len(a.pending), AnalyzedFills: len(a.done)}
	if len(a.done) == 0 {
		return st
	}
	var adverse int
	var short, long float64
	for _, f := range a.done {
		ms := f.Markout(f.MidShort)
		if ms < 0 {
			adverse++
		}
		short += ms
		long += f.Markout(f.MidLong)
	}
	n := float64(len(a.done))
	st.AdverseSelectionRate = float64(adverse) / n
	st.AvgMarkoutShort = short / n
	st.AvgMarkoutLong = long / n
	return st
}
