package monitor

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorRecords(t *testing.T) {
	m := New(DefaultConfig())

	m.RecordInsert("BUY", "GOOD_FOR_DAY")
	m.RecordInsert("BUY", "GOOD_FOR_DAY")
	m.RecordCancel("stale")
	m.RecordFill("SELL", 7, true)
	m.RecordFill("SELL", 3, false)
	m.UpdatePressure(3, 1)
	m.UpdatePosition(20, -20)
	m.UpdateGovernorState(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersInserted.WithLabelValues("BUY", "GOOD_FOR_DAY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCancelled.WithLabelValues("stale")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.tradedVolume.WithLabelValues("SELL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersFilled.WithLabelValues("SELL")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pressure.WithLabelValues("BUY")))
	assert.Equal(t, -20.0, testutil.ToFloat64(m.position.WithLabelValues("FUTURE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.governorState))
}

func TestMonitorNilSafe(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.RecordInsert("BUY", "GOOD_FOR_DAY")
		m.RecordExchangeError("unknown")
		m.UpdateQuote(1, 2, 3, 4)
		m.RecordConfigReload(false)
	})
	assert.Nil(t, m.Registry())
}

func TestMonitorHandler(t *testing.T) {
	m := New(DefaultConfig())
	m.RecordStaleBook()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "autotrader_etf_stale_books_total 1")
}
