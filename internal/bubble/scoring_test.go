package bubble

import (
	"math"
	"testing"
)

func TestScoreSameColorBonus(t *testing.T) {
	var streak Streak

	points, streak := Score(streak, TierGreen)
	if points != 5 {
		t.Errorf("first green = %d points, expected 5", points)
	}
	if streak.Count != 0 || streak.Last != TierGreen {
		t.Errorf("streak after first pop = %+v", streak)
	}

	points, streak = Score(streak, TierGreen)
	if points != 7 {
		t.Errorf("second green = %d points, expected 7 (5*1.5 truncated)", points)
	}
	if streak.Count != 1 {
		t.Errorf("Count = %d, expected 1", streak.Count)
	}

	points, streak = Score(streak, TierGreen)
	if points != 7 || streak.Count != 2 {
		t.Errorf("third green = %d points (count %d), expected 7 (count 2)", points, streak.Count)
	}
}

func TestScoreColorChangeResets(t *testing.T) {
	var streak Streak

	points, streak := Score(streak, TierRed)
	if points != 1 {
		t.Errorf("red = %d points, expected 1", points)
	}

	points, streak = Score(streak, TierPink)
	if points != 2 {
		t.Errorf("pink after red = %d points, expected 2", points)
	}
	if streak.Count != 0 || streak.Last != TierPink {
		t.Errorf("streak after color change = %+v, expected reset to pink", streak)
	}
}

func TestScoreBonusTable(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected int
	}{
		{TierRed, 1},    // 1.5 -> 1
		{TierPink, 3},   // 3
		{TierGreen, 7},  // 7.5 -> 7
		{TierBlue, 12},  // 12
		{TierBlack, 15}, // 15
	}

	for _, tc := range tests {
		_, streak := Score(Streak{}, tc.tier)
		if points, _ := Score(streak, tc.tier); points != tc.expected {
			t.Errorf("repeat %v = %d, expected %d", tc.tier, points, tc.expected)
		}
	}
}

func TestSpeedRamp(t *testing.T) {
	ramp := SpeedRamp{Base: 2, MaxMultiplier: 8}

	tests := []struct {
		name      string
		duration  int
		remaining int
		expected  float64
	}{
		{"start", 60, 60, 2},
		{"one third", 60, 40, 4},
		{"two thirds", 60, 20, 8},
		{"end capped", 60, 0, 16},
		{"short session", 6, 4, 4},
		{"zero duration", 0, 0, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ramp.At(tc.duration, tc.remaining)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("At(%d, %d) = %v, expected %v", tc.duration, tc.remaining, got, tc.expected)
			}
		})
	}
}

func TestSpeedRampNeverExceedsCap(t *testing.T) {
	ramp := SpeedRamp{Base: 1, MaxMultiplier: 8}
	prev := 0.0
	for remaining := 30; remaining >= -5; remaining-- {
		m := ramp.Multiplier(30, remaining)
		if m > 8 {
			t.Fatalf("multiplier %v exceeds cap at remaining=%d", m, remaining)
		}
		if m < prev {
			t.Fatalf("multiplier decreased at remaining=%d", remaining)
		}
		prev = m
	}
}
