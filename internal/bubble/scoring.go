package bubble

// Streak tracks consecutive pops of the same color.
type Streak struct {
	Last    Tier // Color of the last streak-starting pop
	HasLast bool // False until the first pop
	Count   int  // Consecutive same-color pops after the first
}

// Score computes the points for popping a bubble of the given tier and the
// streak to carry into the next pop. Popping the same color as Last earns
// 1.5x the base points, truncated; any other color earns base points and
// starts a new streak.
func Score(streak Streak, popped Tier) (int, Streak) {
	base := popped.Points()

	if streak.HasLast && streak.Last == popped {
		streak.Count++
		return base * 3 / 2, streak
	}

	return base, Streak{Last: popped, HasLast: true}
}
