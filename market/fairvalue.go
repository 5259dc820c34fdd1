package market

import "fmt"

// FairValueMode selects how the reference price is derived from the book.
type FairValueMode string

const (
	// FairValueMean is the unweighted mean of every visible price.
	FairValueMean FairValueMode = "mean"
	// FairValueVWAP weights each visible price by its displayed volume.
	FairValueVWAP FairValueMode = "vwap"
)

// ParseFairValueMode validates a configured mode; empty selects the mean.
func ParseFairValueMode(s string) (FairValueMode, error) {
	switch FairValueMode(s) {
	case "", FairValueMean:
		return FairValueMean, nil
	case FairValueVWAP:
		return FairValueVWAP, nil
	default:
		return "", fmt.Errorf("unknown fair value mode %q", s)
	}
}

// FairValue returns the reference price of the snapshot. Empty levels are
// skipped. The second return is false when no price is visible.
func FairValue(s Snapshot, mode FairValueMode) (float64, bool) {
	if mode == FairValueVWAP {
		if fv, ok := weightedMean(s); ok {
			return fv, true
		}
	}
	return mean(s)
}

func mean(s Snapshot) (float64, bool) {
	var sum float64
	n := 0
	for _, side := range [2][BookDepth]Level{s.Bids, s.Asks} {
		for _, lv := range side {
			if lv.Price <= 0 {
				continue
			}
			sum += float64(lv.Price)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func weightedMean(s Snapshot) (float64, bool) {
	var notional, volume float64
	for _, side := range [2][BookDepth]Level{s.Bids, s.Asks} {
		for _, lv := range side {
			if lv.Price <= 0 || lv.Volume <= 0 {
				continue
			}
			notional += float64(lv.Price) * float64(lv.Volume)
			volume += float64(lv.Volume)
		}
	}
	if volume == 0 {
		return 0, false
	}
	return notional / volume, true
}

// HalfSpread is half the best bid/ask gap, floored at minSpread so a thin
// book never produces a zero-width quote.
func HalfSpread(s Snapshot, minSpread float64) float64 {
	half := float64(s.BestAsk()-s.BestBid()) / 2
	if half < minSpread {
		return minSpread
	}
	return half
}
