package bubble

import "math"

// SpeedRamp computes drift speed as the session clock runs down.
// Speed doubles every third of the session and is capped at MaxMultiplier.
type SpeedRamp struct {
	Base          float64 // Units per drift tick at the start
	MaxMultiplier float64
}

// Multiplier returns 2^(elapsed / (duration/3)), capped.
func (r SpeedRamp) Multiplier(duration, remaining int) float64 {
	if duration <= 0 {
		return 1
	}
	elapsed := float64(duration - remaining)
	m := math.Pow(2, elapsed/(float64(duration)/3))
	return math.Min(m, r.MaxMultiplier)
}

// At returns the drift speed for the given clock.
func (r SpeedRamp) At(duration, remaining int) float64 {
	return r.Base * r.Multiplier(duration, remaining)
}
