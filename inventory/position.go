package inventory

import "sync"

// Tracker 维护 ETF 与期货持仓。持仓只由交易所的仓位通知更新；
// 自身成交只用于计算平均成本。
type Tracker struct {
	mu     sync.RWMutex
	etf    int64
	future int64
	cost   float64
	// costBasis 是 cost 对应的数量，由成交累计，可能暂时领先于仓位通知。
	costBasis int64
	updates   int
}

// Apply 处理仓位通知，返回期货是否未与 ETF 完全对冲（期货应为 -ETF）。
func (t *Tracker) Apply(future, etf int64) (hedged bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.future = future
	t.etf = etf
	t.updates++
	if etf == 0 {
		t.cost = 0
		t.costBasis = 0
	}
	return future == -etf
}

// OnFill 根据成交数量（买正卖负）调整加权平均成本。
func (t *Tracker) OnFill(deltaQty int64, price int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// 简化：加权平均成本；反向成交不改变成本，穿越零点时以成交价重置
	next := t.costBasis + deltaQty
	switch {
	case next == 0:
		t.cost = 0
	case t.costBasis == 0 || (t.costBasis > 0) != (next > 0):
		t.cost = float64(price)
	case (deltaQty > 0) == (t.costBasis > 0):
		t.cost = (t.cost*float64(t.costBasis) + float64(price)*float64(deltaQty)) / float64(next)
	}
	t.costBasis = next
}

// ETF is the signed ETF position from the last notification.
func (t *Tracker) ETF() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.etf
}

func (t *Tracker) Future() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.future
}

func (t *Tracker) AvgCost() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cost
}

// Updates counts position notifications received.
func (t *Tracker) Updates() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updates
}
