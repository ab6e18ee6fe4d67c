package bubble

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/core"
)

var testField = core.Size{W: 400, H: 800}

func newTestField(seed int64) *Field {
	f := NewField(rand.New(rand.NewSource(seed)), config.DefaultTuning().Bubbles)
	next := 0
	f.newID = func() string {
		next++
		return fmt.Sprintf("b%d", next)
	}
	return f
}

// assertNoOverlap fails if any two live bubbles overlap.
func assertNoOverlap(t *testing.T, bubbles []Bubble) {
	t.Helper()
	for i := range bubbles {
		for j := i + 1; j < len(bubbles); j++ {
			a, b := bubbles[i], bubbles[j]
			if a.Pos.Distance(b.Pos) <= a.Radius+b.Radius {
				t.Fatalf("bubbles %s and %s overlap: distance %.2f, radii %.2f+%.2f",
					a.ID, b.ID, a.Pos.Distance(b.Pos), a.Radius, b.Radius)
			}
		}
	}
}

func TestPlaceNewBubbleNeverOverlaps(t *testing.T) {
	f := newTestField(1)

	placed := 0
	for trial := 0; trial < 1000; trial++ {
		existing := f.Bubbles()
		b, ok := f.PlaceNewBubble(testField)
		if !ok {
			continue
		}
		placed++
		for _, other := range existing {
			if b.Pos.Distance(other.Pos) <= b.Radius+other.Radius {
				t.Fatalf("trial %d: new bubble overlaps %s", trial, other.ID)
			}
		}
	}

	if placed == 0 {
		t.Fatal("expected at least one bubble to be placed")
	}
	assertNoOverlap(t, f.Bubbles())
}

func TestPlaceNewBubbleInsideField(t *testing.T) {
	tuning := config.DefaultTuning().Bubbles

	for seed := int64(0); seed < 200; seed++ {
		f := newTestField(seed)
		b, ok := f.PlaceNewBubble(testField)
		if !ok {
			t.Fatalf("seed %d: placement on an empty field failed", seed)
		}
		if b.Radius < tuning.MinRadius || b.Radius > tuning.MaxRadius {
			t.Errorf("seed %d: radius %.2f outside [%v, %v]", seed, b.Radius, tuning.MinRadius, tuning.MaxRadius)
		}
		if b.Pos.X-b.Radius < 0 || b.Pos.X+b.Radius > testField.W ||
			b.Pos.Y-b.Radius < 0 || b.Pos.Y+b.Radius > testField.H {
			t.Errorf("seed %d: bubble %+v not fully inside field", seed, b)
		}
		if b.Tier < TierRed || b.Tier > TierBlack {
			t.Errorf("seed %d: invalid tier %v", seed, b.Tier)
		}
	}
}

func TestPlaceNewBubbleUnknownSize(t *testing.T) {
	f := newTestField(1)

	if _, ok := f.PlaceNewBubble(core.Size{}); ok {
		t.Error("placement with unknown size should be skipped")
	}
	if _, err := f.place(core.Size{W: 100}); !errors.Is(err, errUnknownFieldSize) {
		t.Errorf("place() = %v, expected errUnknownFieldSize", err)
	}
	if f.Len() != 0 {
		t.Errorf("field should stay empty, has %d", f.Len())
	}
}

func TestPlaceNewBubbleTinyField(t *testing.T) {
	f := newTestField(1)
	if _, ok := f.PlaceNewBubble(core.Size{W: 40, H: 40}); ok {
		t.Error("a field smaller than one bubble should not accept placements")
	}
}

func TestPlaceNewBubbleGivesUpWhenFull(t *testing.T) {
	f := newTestField(3)
	// A field barely larger than one bubble holds exactly one
	small := core.Size{W: 70, H: 70}

	if _, ok := f.PlaceNewBubble(small); !ok {
		t.Fatal("first placement should succeed")
	}
	if _, ok := f.PlaceNewBubble(small); ok {
		t.Error("second placement should fail after bounded retries")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", f.Len())
	}
}

func TestRefreshNeverExceedsMax(t *testing.T) {
	for _, maxBubbles := range []int{0, 1, 3, 8, 15} {
		f := newTestField(int64(maxBubbles) + 10)
		for cycle := 0; cycle < 200; cycle++ {
			f.Refresh(testField, maxBubbles)
			if f.Len() > maxBubbles {
				t.Fatalf("max %d, cycle %d: %d live bubbles", maxBubbles, cycle, f.Len())
			}
			assertNoOverlap(t, f.Bubbles())
		}
	}
}

func TestRefreshRemovesOldestFirst(t *testing.T) {
	f := newTestField(5)
	for i := 0; i < 6; i++ {
		f.PlaceNewBubble(testField)
	}
	before := f.Bubbles()

	// Zero free slots so only attrition happens
	removed, added := f.Refresh(testField, 0)
	if added != 0 {
		t.Errorf("added = %d with no free slots", added)
	}
	if removed > 3 {
		t.Errorf("removed = %d, expected at most max(1, 6/2) = 3", removed)
	}

	after := f.Bubbles()
	if len(after) != len(before)-removed {
		t.Fatalf("Len() = %d, expected %d", len(after), len(before)-removed)
	}
	for i, b := range after {
		if b.ID != before[i+removed].ID {
			t.Errorf("position %d = %s, expected %s", i, b.ID, before[i+removed].ID)
		}
	}
}

func TestRefreshAddsWhenEmpty(t *testing.T) {
	f := newTestField(9)
	removed, added := f.Refresh(testField, 5)

	if removed != 0 {
		t.Errorf("removed = %d from an empty field", removed)
	}
	if added < 1 || added > 5 {
		t.Errorf("added = %d, expected 1..5", added)
	}
}

func TestRefreshUnknownSizeStillCulls(t *testing.T) {
	f := newTestField(2)
	f.bubbles = []Bubble{
		{ID: "a", Pos: core.Pt(100, 100), Radius: 25, Tier: TierRed},
		{ID: "b", Pos: core.Pt(200, 200), Radius: 25, Tier: TierRed},
	}

	for i := 0; i < 20; i++ {
		f.Refresh(core.Size{}, 15)
	}
	if f.Len() > 2 {
		t.Errorf("no bubbles should be added without a size, got %d", f.Len())
	}
}

func TestAdvanceCullsTopBreach(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{{ID: "top", Pos: core.Pt(200, 10), Radius: 25, Tier: TierRed}}

	culled := f.Advance(50, testField)
	if len(culled) != 1 || culled[0].ID != "top" {
		t.Errorf("Advance() culled %v, expected the top bubble", culled)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", f.Len())
	}
}

func TestAdvanceMovesUp(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{{ID: "mid", Pos: core.Pt(200, 400), Radius: 25, Tier: TierBlue}}

	f.Advance(3.5, testField)
	b := f.Bubbles()[0]
	if b.Pos.Y != 396.5 || b.Pos.X != 200 {
		t.Errorf("position = %+v, expected (200, 396.5)", b.Pos)
	}
	if b.Age != 1 {
		t.Errorf("Age = %d, expected 1", b.Age)
	}
}

func TestAdvanceCullsAnyEdge(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{
		{ID: "left", Pos: core.Pt(20, 400), Radius: 25},
		{ID: "right", Pos: core.Pt(390, 400), Radius: 25},
		{ID: "bottom", Pos: core.Pt(200, 790), Radius: 25},
		{ID: "safe", Pos: core.Pt(200, 400), Radius: 25},
	}

	culled := f.Advance(1, testField)
	if len(culled) != 3 {
		t.Errorf("culled %d bubbles, expected 3", len(culled))
	}
	if f.Len() != 1 || f.Bubbles()[0].ID != "safe" {
		t.Errorf("remaining = %v, expected only safe", f.Bubbles())
	}
}

func TestAdvanceUnknownSizeNoop(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{{ID: "a", Pos: core.Pt(200, 10), Radius: 25}}

	if culled := f.Advance(50, core.Size{}); culled != nil {
		t.Errorf("Advance() with unknown size culled %v", culled)
	}
	if f.Bubbles()[0].Pos.Y != 10 {
		t.Error("bubbles should not move while size is unknown")
	}
}

func TestPop(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{
		{ID: "a", Pos: core.Pt(100, 100), Radius: 25, Tier: TierGreen},
		{ID: "b", Pos: core.Pt(200, 200), Radius: 25, Tier: TierBlue},
	}

	b, err := f.Pop("a")
	if err != nil {
		t.Fatalf("Pop(a) failed: %v", err)
	}
	if b.Tier != TierGreen {
		t.Errorf("popped tier = %v, expected green", b.Tier)
	}

	if _, err := f.Pop("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Pop(a) = %v, expected ErrNotFound", err)
	}
	if _, err := f.Pop("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Pop(missing) = %v, expected ErrNotFound", err)
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", f.Len())
	}
}

func TestAtPrefersNewest(t *testing.T) {
	f := newTestField(1)
	f.bubbles = []Bubble{
		{ID: "old", Pos: core.Pt(100, 100), Radius: 30},
		{ID: "new", Pos: core.Pt(110, 100), Radius: 30},
	}

	b, ok := f.At(core.Pt(105, 100))
	if !ok || b.ID != "new" {
		t.Errorf("At() = %v, %v; expected newest bubble", b.ID, ok)
	}
	if _, ok := f.At(core.Pt(300, 300)); ok {
		t.Error("At() on empty space should miss")
	}
}

func TestFieldDeterminism(t *testing.T) {
	run := func() []Bubble {
		f := newTestField(42)
		for i := 0; i < 30; i++ {
			f.Refresh(testField, 10)
			f.Advance(4, testField)
		}
		return f.Bubbles()
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bubble %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
