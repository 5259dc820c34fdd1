package inventory

// Valuation 基于当前 mid 价计算 ETF 持仓的未实现盈亏。
func (t *Tracker) Valuation(mid float64) (net int64, pnl float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	net = t.etf
	if t.cost == 0 {
		return net, 0
	}
	pnl = (mid - t.cost) * float64(t.etf)
	return
}
