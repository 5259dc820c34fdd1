package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etf-autotrader/config"
	"etf-autotrader/internal/engine"
)

func TestRunnerKeepsInvariants(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.StatusLogInterval = 0
	r, e, err := BuildRunner(DefaultExchangeConfig(), cfg, engine.Deps{})
	require.NoError(t, err)

	r.OnStep = func(int) {
		st := e.Stats()
		require.LessOrEqual(t, st.BidOrders, cfg.MaxSideOrders)
		require.LessOrEqual(t, st.AskOrders, cfg.MaxSideOrders)
		require.LessOrEqual(t, r.Exchange.Open(), cfg.MaxOpenOrders)
		pos := r.Exchange.Position()
		require.LessOrEqual(t, pos, cfg.PositionLimit)
		require.GreaterOrEqual(t, pos, -cfg.PositionLimit)
		require.Equal(t, pos, st.ETF, "engine position follows exchange notifications")
		require.GreaterOrEqual(t, st.BidPressure, cfg.MinPressure)
		require.LessOrEqual(t, st.BidPressure, cfg.MaxPressure)
	}

	res, err := r.Run(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 500, res.Steps)
	assert.Positive(t, res.Trades)
	assert.Positive(t, e.Stats().Inserts)
}

func TestRunnerIsDeterministic(t *testing.T) {
	run := func() Result {
		cfg := config.DefaultEngineConfig()
		cfg.StatusLogInterval = 0
		r, _, err := BuildRunner(DefaultExchangeConfig(), cfg, engine.Deps{})
		require.NoError(t, err)
		res, err := r.Run(context.Background(), 200)
		require.NoError(t, err)
		return res
	}
	assert.Equal(t, run(), run())
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r, _, err := BuildRunner(DefaultExchangeConfig(), config.DefaultEngineConfig(), engine.Deps{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Steps)
}

func TestRunnerReportsMarkouts(t *testing.T) {
	r, _, err := BuildRunner(DefaultExchangeConfig(), config.DefaultEngineConfig(), engine.Deps{})
	require.NoError(t, err)
	res, err := r.Run(context.Background(), 300)
	require.NoError(t, err)
	assert.Equal(t, res.Trades, int64(res.PostTrade.TotalFills))
	assert.Positive(t, res.PostTrade.AnalyzedFills)
	assert.GreaterOrEqual(t, res.PostTrade.AdverseSelectionRate, 0.0)
	assert.LessOrEqual(t, res.PostTrade.AdverseSelectionRate, 1.0)
}
