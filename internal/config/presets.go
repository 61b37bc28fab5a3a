package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"bouncy": {
		Count: 100, SquareSize: 5, Gravity: 9.81, CollisionDamping: 1.0,
		Frames: 1200, Dt: DefaultDt, MaxDelta: DefaultMaxDelta, Clock: "fixed", SampleEvery: 1,
	},
	"dead": {
		Count: 100, SquareSize: 5, Gravity: 9.81, CollisionDamping: 0.1,
		Frames: 600, Dt: DefaultDt, MaxDelta: DefaultMaxDelta, Clock: "fixed", SampleEvery: 1,
	},
	"moon": {
		Count: 100, SquareSize: 5, Gravity: 1.62, CollisionDamping: 0.8,
		Frames: 1800, Dt: DefaultDt, MaxDelta: DefaultMaxDelta, Clock: "fixed", SampleEvery: 2,
	},
	"swarm": {
		Count: 50000, SquareSize: 20, Gravity: 9.81, CollisionDamping: 0.8,
		Workers: 8, Frames: 300, Dt: DefaultDt, MaxDelta: DefaultMaxDelta, Clock: "fixed", SampleEvery: 30,
	},
	"single": {
		Count: 1, SquareSize: 5, Gravity: 9.81, CollisionDamping: 0.8, Seed: 1,
		Frames: 600, Dt: DefaultDt, MaxDelta: DefaultMaxDelta, Clock: "fixed", SampleEvery: 1,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
