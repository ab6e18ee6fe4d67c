// Package config provides YAML-based engine tuning and persisted player
// settings for Bubble Pop.
package config

import (
	"fmt"
	"time"
)

// Tuning contains the engine constants for Bubble Pop.
type Tuning struct {
	Bubbles BubbleTuning  `yaml:"bubbles"`
	Motion  MotionTuning  `yaml:"motion"`
	Session SessionTuning `yaml:"session"`
}

// BubbleTuning defines bubble size and placement parameters.
type BubbleTuning struct {
	MinRadius         float64 `yaml:"min_radius"`
	MaxRadius         float64 `yaml:"max_radius"`
	PlacementAttempts int     `yaml:"placement_attempts"`
	EntranceTicks     int     `yaml:"entrance_ticks"` // Drift ticks a new bubble is reported as entering
}

// MotionTuning defines drift speed and tick cadences.
type MotionTuning struct {
	BaseSpeed        float64 `yaml:"base_speed"`     // Units per drift tick at session start
	MaxMultiplier    float64 `yaml:"max_multiplier"` // Cap on the exponential speed ramp
	DriftIntervalMS  int     `yaml:"drift_interval_ms"`
	SecondIntervalMS int     `yaml:"second_interval_ms"`
}

// SessionTuning defines session-level timings.
type SessionTuning struct {
	CountdownTicks int `yaml:"countdown_ticks"`
	IndicatorTicks int `yaml:"indicator_ticks"` // Lifetime of a floating score indicator
	PoppingTicks   int `yaml:"popping_ticks"`   // Lifetime of a popped bubble's exit state
}

// DriftInterval returns the drift cadence as a duration.
func (m MotionTuning) DriftInterval() time.Duration {
	return time.Duration(m.DriftIntervalMS) * time.Millisecond
}

// SecondInterval returns the game-clock cadence as a duration.
func (m MotionTuning) SecondInterval() time.Duration {
	return time.Duration(m.SecondIntervalMS) * time.Millisecond
}

// Validate checks that the tuning values are usable.
func (t Tuning) Validate() error {
	b := t.Bubbles
	if b.MinRadius <= 0 || b.MaxRadius < b.MinRadius {
		return fmt.Errorf("config: invalid radius range [%v, %v]", b.MinRadius, b.MaxRadius)
	}
	if b.PlacementAttempts <= 0 {
		return fmt.Errorf("config: placement_attempts must be positive, got %d", b.PlacementAttempts)
	}
	if t.Motion.BaseSpeed < 0 || t.Motion.MaxMultiplier < 1 {
		return fmt.Errorf("config: invalid speed (base %v, max multiplier %v)", t.Motion.BaseSpeed, t.Motion.MaxMultiplier)
	}
	if t.Motion.DriftIntervalMS <= 0 || t.Motion.SecondIntervalMS <= 0 {
		return fmt.Errorf("config: tick intervals must be positive")
	}
	if t.Session.CountdownTicks < 0 {
		return fmt.Errorf("config: countdown_ticks must not be negative")
	}
	return nil
}
