package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings limits
const (
	DefaultDurationSeconds = 60
	DefaultMaxBubbles      = 15
	MinDurationSeconds     = 5
	MaxDurationSeconds     = 60
	DurationStep           = 5 // Granularity offered by hosts when adjusting the duration
	MinMaxBubbles          = 0
	MaxMaxBubbles          = 15
)

// ErrInvalidSettings is returned by Validate and Set for out-of-range values.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings are the player-adjustable game parameters.
type Settings struct {
	DurationSeconds int `yaml:"duration_seconds" json:"duration_seconds"`
	MaxBubbles      int `yaml:"max_bubbles" json:"max_bubbles"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		DurationSeconds: DefaultDurationSeconds,
		MaxBubbles:      DefaultMaxBubbles,
	}
}

// Normalize replaces unset (<= 0) values with defaults and clamps the rest
// into range.
func (s Settings) Normalize() Settings {
	if s.DurationSeconds <= 0 {
		s.DurationSeconds = DefaultDurationSeconds
	}
	if s.MaxBubbles <= 0 {
		s.MaxBubbles = DefaultMaxBubbles
	}
	s.DurationSeconds = min(max(s.DurationSeconds, MinDurationSeconds), MaxDurationSeconds)
	s.MaxBubbles = min(max(s.MaxBubbles, MinMaxBubbles), MaxMaxBubbles)
	return s
}

// Validate reports whether both values are inside their ranges.
func (s Settings) Validate() error {
	if s.DurationSeconds < MinDurationSeconds || s.DurationSeconds > MaxDurationSeconds {
		return fmt.Errorf("%w: duration must be %d-%d seconds, got %d",
			ErrInvalidSettings, MinDurationSeconds, MaxDurationSeconds, s.DurationSeconds)
	}
	if s.MaxBubbles < MinMaxBubbles || s.MaxBubbles > MaxMaxBubbles {
		return fmt.Errorf("%w: max bubbles must be %d-%d, got %d",
			ErrInvalidSettings, MinMaxBubbles, MaxMaxBubbles, s.MaxBubbles)
	}
	return nil
}

// SettingsStore persists Settings as a YAML file.
type SettingsStore struct {
	path string
	mu   sync.Mutex
}

// NewSettingsStore creates a store backed by the file at path.
// A leading ~ is expanded. The file does not need to exist.
func NewSettingsStore(path string) (*SettingsStore, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &SettingsStore{path: expanded}, nil
}

// Path returns the backing file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the stored settings. On any error it returns the defaults
// together with the error, so callers may log and carry on.
func (s *SettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("config: cannot read settings %s: %w", s.path, err)
	}

	var v Settings
	if err := yaml.Unmarshal(data, &v); err != nil {
		return DefaultSettings(), fmt.Errorf("config: cannot parse settings %s: %w", s.path, err)
	}
	return v.Normalize(), nil
}

// Get returns the stored settings, falling back to defaults on failure.
func (s *SettingsStore) Get() Settings {
	v, _ := s.Load()
	return v
}

// Set validates and persists the settings.
func (s *SettingsStore) Set(v Settings) error {
	if err := v.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: cannot encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory %s: %w", dir, err)
	}

	// Write to a temp file and rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("config: cannot create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("config: cannot write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config: cannot write settings: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config: cannot save settings: %w", err)
	}
	return nil
}
