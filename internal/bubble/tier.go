// Package bubble implements the Bubble Pop engine: the bubble field, the
// scoring rules and the tick-driven session state machine.
// It owns no pixels; hosts render Snapshots and feed pops back in.
package bubble

import (
	"math/rand"

	"github.com/vovakirdan/bubble-pop/internal/core"
)

// Tier is one of the five bubble colors. Each has a fixed point value and
// spawn probability.
type Tier int

const (
	TierRed   Tier = iota + 1 // 1 point, 40%
	TierPink                  // 2 points, 30%
	TierGreen                 // 5 points, 15%
	TierBlue                  // 8 points, 10%
	TierBlack                 // 10 points, 5%
)

// Tiers lists every tier in ascending value order.
var Tiers = []Tier{TierRed, TierPink, TierGreen, TierBlue, TierBlack}

// Points returns the base points for popping a bubble of this tier.
func (t Tier) Points() int {
	switch t {
	case TierRed:
		return 1
	case TierPink:
		return 2
	case TierGreen:
		return 5
	case TierBlue:
		return 8
	case TierBlack:
		return 10
	default:
		return 0
	}
}

// Probability returns the spawn chance of this tier in percent.
func (t Tier) Probability() int {
	switch t {
	case TierRed:
		return 40
	case TierPink:
		return 30
	case TierGreen:
		return 15
	case TierBlue:
		return 10
	case TierBlack:
		return 5
	default:
		return 0
	}
}

// String returns the color name.
func (t Tier) String() string {
	switch t {
	case TierRed:
		return "red"
	case TierPink:
		return "pink"
	case TierGreen:
		return "green"
	case TierBlue:
		return "blue"
	case TierBlack:
		return "black"
	default:
		return "unknown"
	}
}

// Color returns the screen color hosts should draw the tier with.
func (t Tier) Color() core.Color {
	switch t {
	case TierRed:
		return core.ColorRed
	case TierPink:
		return core.ColorPink
	case TierGreen:
		return core.ColorGreen
	case TierBlue:
		return core.ColorBlue
	case TierBlack:
		return core.ColorBlack
	default:
		return core.ColorDefault
	}
}

// TierForDraw maps a draw in [0, 100) to a tier using cumulative
// probabilities: [0,40) red, [40,70) pink, [70,85) green, [85,95) blue,
// [95,100) black. Out-of-range draws clamp to the nearest end.
func TierForDraw(draw int) Tier {
	switch {
	case draw < 40:
		return TierRed
	case draw < 70:
		return TierPink
	case draw < 85:
		return TierGreen
	case draw < 95:
		return TierBlue
	default:
		return TierBlack
	}
}

// Picker draws weighted random tiers from an injected source.
type Picker struct {
	rng *rand.Rand
}

// NewPicker creates a picker. The same seeded source yields the same tiers.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// Pick returns a random tier.
func (p *Picker) Pick() Tier {
	return TierForDraw(p.rng.Intn(100))
}
