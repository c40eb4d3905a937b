package config

import "sort"

var Presets = map[string]*Config{
	"inner": {
		Orbits: 2,
		Bodies: []string{"Mercury", "Venus", "Earth", "Mars"},
		Plot:   PlotConfig{Projection: "top"},
	},
	"outer": {
		Orbits: 1,
		Bodies: []string{"Jupiter", "Saturn", "Uranus", "Neptune"},
		Plot:   PlotConfig{Projection: "top"},
	},
	"earth": {
		Orbits: 3,
		Bodies: []string{"Earth"},
		Plot:   PlotConfig{Projection: "top"},
	},
	"inclined": {
		Orbits: 1,
		Bodies: []string{"Mercury", "Venus", "Mars"},
		Plot:   PlotConfig{Projection: "side"},
	},
	"all": {
		Orbits: 1,
		Plot:   PlotConfig{Projection: "top"},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
