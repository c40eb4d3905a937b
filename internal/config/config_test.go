package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataFile != DefaultDataFile {
		t.Errorf("expected data file %s, got %s", DefaultDataFile, cfg.DataFile)
	}
	if cfg.Orbits != 1 {
		t.Errorf("expected 1 orbit, got %d", cfg.Orbits)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbsim.yaml")
	data := "orbits: 4\nworkers: 2\nbodies: [Earth, Mars]\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Orbits != 4 || cfg.Workers != 2 {
		t.Errorf("expected orbits 4 workers 2, got %d %d", cfg.Orbits, cfg.Workers)
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1] != "Mars" {
		t.Errorf("unexpected bodies %v", cfg.Bodies)
	}
	if cfg.DataFile != DefaultDataFile {
		t.Errorf("data file should keep its default, got %s", cfg.DataFile)
	}
	if cfg.Plot.Width != DefaultWidth {
		t.Errorf("plot width should keep its default, got %d", cfg.Plot.Width)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbsim.yaml")
	if err := os.WriteFile(path, []byte("orbits: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbsim.yaml")
	cfg := DefaultConfig()
	cfg.Bodies = []string{"Jupiter"}
	cfg.MetricsAddr = ":9090"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MetricsAddr != ":9090" || len(got.Bodies) != 1 {
		t.Errorf("unexpected config after reload: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty data file", func(c *Config) { c.DataFile = "" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad projection", func(c *Config) { c.Plot.Projection = "iso" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("earth")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Orbits != 3 {
		t.Errorf("expected 3 orbits, got %d", cfg.Orbits)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(GetPreset("inclined"))

	if cfg.Plot.Projection != "side" {
		t.Errorf("expected side projection, got %s", cfg.Plot.Projection)
	}
	if len(cfg.Bodies) != 3 {
		t.Errorf("expected 3 bodies, got %v", cfg.Bodies)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("workers should not change, got %d", cfg.Workers)
	}

	cfg.Bodies[0] = "Pluto"
	if Presets["inclined"].Bodies[0] == "Pluto" {
		t.Error("Apply must not alias the preset's body list")
	}
}
