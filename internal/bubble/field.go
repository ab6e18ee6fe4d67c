package bubble

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/core"
)

// Placement failures. PlaceNewBubble treats both as a skipped placement.
var (
	// errUnknownFieldSize means the host has not reported its viewport yet.
	errUnknownFieldSize = errors.New("bubble: field size unknown")

	// errNoRoom means every attempt collided or the field is smaller than
	// a bubble.
	errNoRoom = errors.New("bubble: no free position")
)

// Bubble is a live bubble on the field.
type Bubble struct {
	ID     string     // Stable for the bubble's lifetime
	Pos    core.Point // Center in field coordinates
	Radius float64
	Tier   Tier
	Age    int // Drift ticks since spawn
}

// Circle returns the bubble's hitbox.
func (b Bubble) Circle() core.Circle {
	return core.Circle{Center: b.Pos, Radius: b.Radius}
}

// Points returns the base value of the bubble.
func (b Bubble) Points() int {
	return b.Tier.Points()
}

// Field owns the ordered set of live bubbles. Oldest bubbles come first.
// Field is not safe for concurrent use; Session serializes access.
type Field struct {
	bubbles []Bubble
	rng     *rand.Rand
	picker  *Picker
	tuning  config.BubbleTuning
	newID   func() string
}

// NewField creates an empty field drawing from rng.
func NewField(rng *rand.Rand, tuning config.BubbleTuning) *Field {
	return &Field{
		bubbles: make([]Bubble, 0, config.MaxMaxBubbles),
		rng:     rng,
		picker:  NewPicker(rng),
		tuning:  tuning,
		newID:   uuid.NewString,
	}
}

// Len returns the number of live bubbles.
func (f *Field) Len() int {
	return len(f.bubbles)
}

// Bubbles returns a copy of the live bubbles.
func (f *Field) Bubbles() []Bubble {
	out := make([]Bubble, len(f.bubbles))
	copy(out, f.bubbles)
	return out
}

// Clear removes every bubble.
func (f *Field) Clear() {
	f.bubbles = f.bubbles[:0]
}

// PlaceNewBubble spawns one bubble of random radius and tier at a random
// position fully inside the field that does not overlap any live bubble.
// It makes at most PlacementAttempts tries and gives up silently, so a
// bubble may be skipped even when room exists. The placed bubble is
// appended and returned.
func (f *Field) PlaceNewBubble(size core.Size) (Bubble, bool) {
	b, err := f.place(size)
	if err != nil {
		return Bubble{}, false
	}
	return b, true
}

func (f *Field) place(size core.Size) (Bubble, error) {
	if !size.Known() {
		return Bubble{}, errUnknownFieldSize
	}

	radius := f.tuning.MinRadius + f.rng.Float64()*(f.tuning.MaxRadius-f.tuning.MinRadius)

	// Keep the whole bubble on the field
	spanX := size.W - 2*radius
	spanY := size.H - 2*radius
	if spanX < 0 || spanY < 0 {
		return Bubble{}, errNoRoom
	}

	for attempt := 0; attempt < f.tuning.PlacementAttempts; attempt++ {
		c := core.Circle{
			Center: core.Pt(radius+f.rng.Float64()*spanX, radius+f.rng.Float64()*spanY),
			Radius: radius,
		}
		if f.overlaps(c) {
			continue
		}

		b := Bubble{
			ID:     f.newID(),
			Pos:    c.Center,
			Radius: radius,
			Tier:   f.picker.Pick(),
		}
		f.bubbles = append(f.bubbles, b)
		return b, nil
	}

	return Bubble{}, errNoRoom
}

// overlaps reports whether c touches any live bubble.
func (f *Field) overlaps(c core.Circle) bool {
	for _, b := range f.bubbles {
		if b.Circle().Overlaps(c) {
			return true
		}
	}
	return false
}

// Refresh runs the once-per-second attrition and respawn cycle.
// It removes a random number of the oldest bubbles, drawn from
// 0..max(1, n/2), then, if there is room under maxBubbles, attempts to
// place a random number of new bubbles drawn from 1..free slots.
// It returns how many bubbles were removed and added.
func (f *Field) Refresh(size core.Size, maxBubbles int) (removed, added int) {
	n := len(f.bubbles)
	removeCount := f.rng.Intn(max(1, n/2) + 1)
	if removeCount > n {
		removeCount = n
	}
	if removeCount > 0 {
		f.bubbles = append(f.bubbles[:0], f.bubbles[removeCount:]...)
	}

	remainingSlots := maxBubbles - len(f.bubbles)
	if remainingSlots <= 0 {
		return removeCount, 0
	}

	addCount := 1 + f.rng.Intn(remainingSlots)
	for i := 0; i < addCount; i++ {
		if _, ok := f.PlaceNewBubble(size); ok {
			added++
		}
	}
	return removeCount, added
}

// Advance moves every bubble up by speed and ages it. Bubbles that touch
// or cross any edge of the field are removed and returned.
// Nothing moves while the field size is unknown.
func (f *Field) Advance(speed float64, size core.Size) []Bubble {
	if !size.Known() {
		return nil
	}

	var culled []Bubble
	kept := f.bubbles[:0]
	for _, b := range f.bubbles {
		b.Pos.Y -= speed
		b.Age++
		if b.Circle().Touches(size) {
			culled = append(culled, b)
			continue
		}
		kept = append(kept, b)
	}
	f.bubbles = kept
	return culled
}

// Pop removes and returns the bubble with the given id.
func (f *Field) Pop(id string) (Bubble, error) {
	for i, b := range f.bubbles {
		if b.ID == id {
			f.bubbles = append(f.bubbles[:i], f.bubbles[i+1:]...)
			return b, nil
		}
	}
	return Bubble{}, ErrNotFound
}

// At returns the bubble containing p. Newer bubbles are checked first
// since hosts draw them on top.
func (f *Field) At(p core.Point) (Bubble, bool) {
	for i := len(f.bubbles) - 1; i >= 0; i-- {
		if f.bubbles[i].Circle().Contains(p) {
			return f.bubbles[i], true
		}
	}
	return Bubble{}, false
}
