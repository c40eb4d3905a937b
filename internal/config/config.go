package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataFile = "data/celestial_bodies.toml"
	DefaultOrbits   = 1
	DefaultWorkers  = 1
	DefaultLogLevel = "info"
	DefaultWidth    = 100
	DefaultHeight   = 30
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	DataFile    string     `yaml:"data_file"`
	Orbits      int        `yaml:"orbits"`
	Workers     int        `yaml:"workers"`
	Bodies      []string   `yaml:"bodies,omitempty"`
	LogLevel    string     `yaml:"log_level"`
	LogFormat   string     `yaml:"log_format,omitempty"`
	MetricsAddr string     `yaml:"metrics_addr,omitempty"`
	Plot        PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Projection is "top" (x-y plane) or "side" (x-z plane).
	Projection string `yaml:"projection"`
}

func DefaultConfig() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		Orbits:   DefaultOrbits,
		Workers:  DefaultWorkers,
		LogLevel: DefaultLogLevel,
		Plot: PlotConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Projection: "top",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file is empty", ErrInvalid)
	}
	if c.Orbits < 1 {
		return fmt.Errorf("%w: orbits must be at least 1, got %d", ErrInvalid, c.Orbits)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	switch c.Plot.Projection {
	case "", "top", "side":
	default:
		return fmt.Errorf("%w: unknown projection %q", ErrInvalid, c.Plot.Projection)
	}
	return nil
}

// Apply copies the preset's selection onto c.
func (c *Config) Apply(p *Config) {
	if p == nil {
		return
	}
	if p.Orbits > 0 {
		c.Orbits = p.Orbits
	}
	if len(p.Bodies) > 0 {
		c.Bodies = append([]string(nil), p.Bodies...)
	}
	if p.Plot.Projection != "" {
		c.Plot.Projection = p.Plot.Projection
	}
}
