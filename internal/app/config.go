// Package app ties the console core to the front-ends: configuration, the
// driver loop and the audio sink.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user-facing settings, persisted as JSON.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
}

// WindowConfig sizes the display window.
type WindowConfig struct {
	Scale      int  `json:"scale"` // NES resolution multiplier
	Fullscreen bool `json:"fullscreen"`
}

// VideoConfig selects the presentation backend.
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine" or "headless"
	VSync   bool   `json:"vsync"`
}

// AudioConfig parameterizes the audio sink.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
}

// InputConfig maps host keys to pad buttons.
type InputConfig struct {
	Player1 KeyMapping `json:"player1_keys"`
}

// KeyMapping names host keys for the eight pad buttons.
type KeyMapping struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Select string `json:"select"`
	Start  string `json:"start"`
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
}

// EmulationConfig holds core behavior switches.
type EmulationConfig struct {
	StrictOpcodes bool `json:"strict_opcodes"` // panic on unmapped opcodes
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Scale: 2},
		Video:  VideoConfig{Backend: "ebitengine", VSync: true},
		Audio:  AudioConfig{Enabled: true, SampleRate: 44100, Volume: 1.0},
		Input: InputConfig{
			Player1: KeyMapping{
				A: "z", B: "x", Select: "rshift", Start: "enter",
				Up: "up", Down: "down", Left: "left", Right: "right",
			},
		},
	}
}

// DefaultConfigPath places the config under the user config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "nes2.json"
	}
	return filepath.Join(dir, "nes2", "config.json")
}

// LoadConfig reads the config at path, falling back to defaults when the
// file does not exist yet.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("app: read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("app: parse config %s: %w", path, err)
	}
	return config, nil
}

// Save writes the config as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("app: save config: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("app: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("app: save config: %w", err)
	}
	return nil
}
