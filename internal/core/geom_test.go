package core

import "testing"

func TestCircleOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Circle
		expected bool
	}{
		{
			name:     "far apart",
			a:        Circle{Center: Pt(0, 0), Radius: 10},
			b:        Circle{Center: Pt(100, 0), Radius: 10},
			expected: false,
		},
		{
			name:     "intersecting",
			a:        Circle{Center: Pt(0, 0), Radius: 10},
			b:        Circle{Center: Pt(15, 0), Radius: 10},
			expected: true,
		},
		{
			name:     "exactly touching",
			a:        Circle{Center: Pt(0, 0), Radius: 10},
			b:        Circle{Center: Pt(20, 0), Radius: 10},
			expected: true,
		},
		{
			name:     "diagonal gap",
			a:        Circle{Center: Pt(0, 0), Radius: 25},
			b:        Circle{Center: Pt(40, 40), Radius: 30},
			expected: false,
		},
		{
			name:     "diagonal overlap",
			a:        Circle{Center: Pt(0, 0), Radius: 25},
			b:        Circle{Center: Pt(38, 38), Radius: 30},
			expected: true,
		},
		{
			name:     "contained",
			a:        Circle{Center: Pt(50, 50), Radius: 30},
			b:        Circle{Center: Pt(55, 50), Radius: 5},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			// Also test symmetry
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCircleTouches(t *testing.T) {
	field := Size{W: 400, H: 800}

	tests := []struct {
		name     string
		c        Circle
		expected bool
	}{
		{"centered", Circle{Center: Pt(200, 400), Radius: 25}, false},
		{"top breach", Circle{Center: Pt(200, -40), Radius: 25}, true},
		{"top edge exact", Circle{Center: Pt(200, 25), Radius: 25}, true},
		{"left edge", Circle{Center: Pt(10, 400), Radius: 25}, true},
		{"right edge", Circle{Center: Pt(380, 400), Radius: 25}, true},
		{"bottom edge", Circle{Center: Pt(200, 790), Radius: 25}, true},
		{"just inside", Circle{Center: Pt(26, 26), Radius: 25}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Touches(field); got != tc.expected {
				t.Errorf("Touches() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCircleContains(t *testing.T) {
	c := Circle{Center: Pt(100, 100), Radius: 20}

	if !c.Contains(Pt(100, 100)) {
		t.Error("center should be contained")
	}
	if !c.Contains(Pt(120, 100)) {
		t.Error("edge point should be contained")
	}
	if c.Contains(Pt(121, 100)) {
		t.Error("point outside radius should not be contained")
	}
}

func TestSizeKnown(t *testing.T) {
	if (Size{}).Known() {
		t.Error("zero size should be unknown")
	}
	if (Size{W: 100}).Known() {
		t.Error("size without height should be unknown")
	}
	if !(Size{W: 1, H: 1}).Known() {
		t.Error("positive size should be known")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
