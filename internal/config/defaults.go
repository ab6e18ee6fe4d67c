package config

import (
	_ "embed"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// DefaultTuning returns the default engine tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Bubbles: BubbleTuning{
			MinRadius:         25,
			MaxRadius:         30,
			PlacementAttempts: 10,
			EntranceTicks:     6,
		},
		Motion: MotionTuning{
			BaseSpeed:        1.0,
			MaxMultiplier:    8.0,
			DriftIntervalMS:  50,
			SecondIntervalMS: 1000,
		},
		Session: SessionTuning{
			CountdownTicks: 3,
			IndicatorTicks: 50,
			PoppingTicks:   7,
		},
	}
}
