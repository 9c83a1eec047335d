package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"static": preset(func(c *Config) {
		c.Engine.Regenerate = false
	}),
	"dense": preset(func(c *Config) {
		c.Engine.PaddingFactor = 1.05
		c.Engine.GapLen = RangeConfig{Min: 1, Max: 3}
	}),
	"drizzle": preset(func(c *Config) {
		c.Engine.Speed = RangeConfig{Min: 1, Max: 4}
		c.Engine.GapLen = RangeConfig{Min: 4, Max: 10}
	}),
	"storm": preset(func(c *Config) {
		c.Engine.Speed = RangeConfig{Min: 4, Max: 16}
		c.FPS = 60
	}),
}

// PresetDescriptions is shown by `cascade presets`.
var PresetDescriptions = map[string]string{
	"classic": "default rain, buffers regenerated as they scroll",
	"static":  "one screen-tall buffer per column, repeated",
	"dense":   "tight columns with short gaps",
	"drizzle": "slow sparse strings",
	"storm":   "fast rain at 60 fps",
}

func preset(modify func(*Config)) *Config {
	c := DefaultConfig()
	modify(c)
	return c
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
