package strategy

import "math"

// Resistance is the position-driven price shift added to the bid and
// subtracted from the ask: sign(x) * min(cap, scale / (thresh - |x|)^2).
// It is 0 for a flat position and saturates at +/-cap from the threshold on.
func Resistance(position, thresh int64, scale, cap float64) float64 {
	if position == 0 {
		return 0
	}
	sign := 1.0
	abs := position
	if position < 0 {
		sign = -1
		abs = -position
	}
	if abs >= thresh {
		return sign * cap
	}
	gap := float64(thresh - abs)
	return sign * math.Min(cap, scale/(gap*gap))
}
