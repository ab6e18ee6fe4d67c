package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	cfg, err := parseTuning(defaultTuningYAML)
	if err != nil {
		t.Fatalf("embedded tuning failed to parse: %v", err)
	}
	if cfg != DefaultTuning() {
		t.Errorf("embedded tuning = %+v, expected %+v", cfg, DefaultTuning())
	}
}

func TestLoadTuningCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yaml := "bubbles:\n  min_radius: 10\n  max_radius: 12\nmotion:\n  base_speed: 2.5\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() failed: %v", err)
	}

	if cfg.Bubbles.MinRadius != 10 || cfg.Bubbles.MaxRadius != 12 {
		t.Errorf("radius range = [%v, %v], expected [10, 12]", cfg.Bubbles.MinRadius, cfg.Bubbles.MaxRadius)
	}
	if cfg.Motion.BaseSpeed != 2.5 {
		t.Errorf("BaseSpeed = %v, expected 2.5", cfg.Motion.BaseSpeed)
	}
	// Unspecified values keep their defaults
	if cfg.Bubbles.PlacementAttempts != 10 {
		t.Errorf("PlacementAttempts = %d, expected default 10", cfg.Bubbles.PlacementAttempts)
	}
	if cfg.Session.CountdownTicks != 3 {
		t.Errorf("CountdownTicks = %d, expected default 3", cfg.Session.CountdownTicks)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTuning(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("bubbles:\n  min_radius: 40\n  max_radius: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuning(bad); err == nil {
		t.Error("inverted radius range should be rejected")
	}
}

func TestTuningIntervals(t *testing.T) {
	m := DefaultTuning().Motion
	if m.DriftInterval().Milliseconds() != 50 {
		t.Errorf("DriftInterval() = %v, expected 50ms", m.DriftInterval())
	}
	if m.SecondInterval().Seconds() != 1 {
		t.Errorf("SecondInterval() = %v, expected 1s", m.SecondInterval())
	}
}

func TestSettingsNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Settings
		expected Settings
	}{
		{"unset", Settings{}, Settings{60, 15}},
		{"negative", Settings{-3, -1}, Settings{60, 15}},
		{"in range", Settings{30, 7}, Settings{30, 7}},
		{"too short", Settings{2, 5}, Settings{5, 5}},
		{"too long", Settings{90, 5}, Settings{60, 5}},
		{"too many bubbles", Settings{10, 40}, Settings{10, 15}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.expected {
				t.Errorf("Normalize(%+v) = %+v, expected %+v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := []Settings{{5, 0}, {60, 15}, {30, 8}}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, expected nil", s, err)
		}
	}

	invalid := []Settings{{4, 5}, {61, 5}, {30, -1}, {30, 16}}
	for _, s := range invalid {
		err := s.Validate()
		if !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("Validate(%+v) = %v, expected ErrInvalidSettings", s, err)
		}
	}
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store, err := NewSettingsStore(path)
	if err != nil {
		t.Fatalf("NewSettingsStore() failed: %v", err)
	}

	// Missing file yields defaults without error
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file failed: %v", err)
	}
	if got != DefaultSettings() {
		t.Errorf("Load() = %+v, expected defaults", got)
	}

	if err := store.Set(Settings{DurationSeconds: 20, MaxBubbles: 4}); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got = store.Get()
	if got.DurationSeconds != 20 || got.MaxBubbles != 4 {
		t.Errorf("Get() = %+v, expected {20 4}", got)
	}

	// A second store on the same file sees the change
	other, _ := NewSettingsStore(path)
	if other.Get() != got {
		t.Errorf("second store Get() = %+v, expected %+v", other.Get(), got)
	}
}

func TestSettingsStoreRejectsInvalid(t *testing.T) {
	store, _ := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))

	if err := store.Set(Settings{DurationSeconds: 100, MaxBubbles: 4}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Set() = %v, expected ErrInvalidSettings", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("invalid settings must not be written")
	}
}

func TestSettingsStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("duration_seconds: [not a number"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewSettingsStore(path)
	got, err := store.Load()
	if err == nil {
		t.Error("corrupt file should report an error")
	}
	if got != DefaultSettings() {
		t.Errorf("corrupt file should fall back to defaults, got %+v", got)
	}
}
