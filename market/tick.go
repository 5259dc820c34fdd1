package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundToTick snaps price to the nearest multiple of tick, halves away from zero.
func RoundToTick(price float64, tick int64) int64 {
	if tick <= 0 {
		return int64(math.Round(price))
	}
	t := decimal.NewFromInt(tick)
	return decimal.NewFromFloat(price).Div(t).Round(0).Mul(t).IntPart()
}

// FloorToTick snaps price down to a multiple of tick.
func FloorToTick(price float64, tick int64) int64 {
	if tick <= 0 {
		return int64(math.Floor(price))
	}
	t := decimal.NewFromInt(tick)
	return decimal.NewFromFloat(price).Div(t).Floor().Mul(t).IntPart()
}

// CeilToTick snaps price up to a multiple of tick.
func CeilToTick(price float64, tick int64) int64 {
	if tick <= 0 {
		return int64(math.Ceil(price))
	}
	t := decimal.NewFromInt(tick)
	return decimal.NewFromFloat(price).Div(t).Ceil().Mul(t).IntPart()
}

// OnTick reports whether price is an exact multiple of tick.
func OnTick(price, tick int64) bool {
	if tick <= 0 {
		return true
	}
	return price%tick == 0
}
