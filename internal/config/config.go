// Package config loads the YAML configuration: movement tunables, logging,
// session pools and the UI registry.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when Load gets an empty path.
const EnvPath = "TRAVERSE_CONFIG"

// ErrInvalidTunables is wrapped by every validation failure.
var ErrInvalidTunables = errors.New("invalid tunables")

type Config struct {
	Log        LogConfig          `yaml:"log"`
	Climb      ClimbTunables      `yaml:"climb"`
	Locomotion LocomotionTunables `yaml:"locomotion"`
	Pools      []PoolConfig       `yaml:"pools"`
	UI         []UIEntry          `yaml:"ui"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type PoolConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// UIEntry is one row of the UI registry table.
type UIEntry struct {
	Name         string `yaml:"name"`
	Layer        int    `yaml:"layer"`
	InputOnly    bool   `yaml:"input_only"`
	PreCreate    bool   `yaml:"pre_create"`
	DestroyOnPop bool   `yaml:"destroy_on_pop"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:        LogConfig{Level: "info"},
		Climb:      DefaultClimbTunables(),
		Locomotion: DefaultLocomotionTunables(),
	}
}

// Load reads a YAML file over Default. An empty path falls back to
// $TRAVERSE_CONFIG, and to Default when that is unset too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Climb.Validate(); err != nil {
		return fmt.Errorf("climb: %w", err)
	}
	if err := c.Locomotion.Validate(); err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}

	seen := map[string]bool{}
	for _, p := range c.Pools {
		if p.Name == "" {
			return fmt.Errorf("pools: %w: empty pool name", ErrInvalidTunables)
		}
		if seen[p.Name] {
			return fmt.Errorf("pools: %w: duplicate pool %q", ErrInvalidTunables, p.Name)
		}
		if p.Capacity <= 0 {
			return fmt.Errorf("pools: %w: pool %q capacity %d", ErrInvalidTunables, p.Name, p.Capacity)
		}
		seen[p.Name] = true
	}

	clear(seen)
	for _, u := range c.UI {
		if u.Name == "" {
			return fmt.Errorf("ui: %w: empty widget name", ErrInvalidTunables)
		}
		if seen[u.Name] {
			return fmt.Errorf("ui: %w: duplicate widget %q", ErrInvalidTunables, u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}
