package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZapWritesFields(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("order inserted", "order_id", uint64(7), "side", "BUY")
	l.Warn("hedge mismatch", "etf", 10, "future", -5)

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "order inserted", entries[0].Message)
	assert.Equal(t, uint64(7), entries[0].ContextMap()["order_id"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestNilZapFallsBackToNop(t *testing.T) {
	l := FromZap(nil)
	assert.NotPanics(t, func() { l.Error("ignored", "k", 1) })
}
