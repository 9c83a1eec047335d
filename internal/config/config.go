package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFontSize = 18.0
	DefaultFPS      = 30
	DefaultTheme    = "matrix"
	DefaultCellW    = 12
	DefaultCellH    = 24
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	FontSize  float64      `yaml:"font_size"`
	FPS       int          `yaml:"fps"`
	Seed      uint64       `yaml:"seed"`
	Theme     string       `yaml:"theme"`
	AtlasPath string       `yaml:"atlas_path"`
	AtlasCell CellConfig   `yaml:"atlas_cell"`
	Engine    EngineConfig `yaml:"engine"`
}

// CellConfig describes the cell grid of a PNG atlas strip.
type CellConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Reserved int `yaml:"reserved"`
}

type RangeConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type EngineConfig struct {
	PaddingFactor  float64     `yaml:"padding_factor"`
	Regenerate     bool        `yaml:"regenerate"`
	BufferDivisor  int         `yaml:"buffer_divisor"`
	Speed          RangeConfig `yaml:"speed"`
	StringLen      RangeConfig `yaml:"string_len"`
	GapLen         RangeConfig `yaml:"gap_len"`
	SlowSpeed      int         `yaml:"slow_speed"`
	MaxBufferBytes int         `yaml:"max_buffer_bytes"`
}

func DefaultConfig() *Config {
	o := engine.DefaultOptions()
	return &Config{
		FontSize: DefaultFontSize,
		FPS:      DefaultFPS,
		Theme:    DefaultTheme,
		AtlasCell: CellConfig{
			Width:    DefaultCellW,
			Height:   DefaultCellH,
			Reserved: atlas.DefaultReserved,
		},
		Engine: engineConfig(o),
	}
}

func engineConfig(o engine.Options) EngineConfig {
	return EngineConfig{
		PaddingFactor:  o.PaddingFactor,
		Regenerate:     o.Regenerate,
		BufferDivisor:  o.BufferDivisor,
		Speed:          RangeConfig(o.Speed),
		StringLen:      RangeConfig(o.StringLen),
		GapLen:         RangeConfig(o.GapLen),
		SlowSpeed:      o.SlowSpeed,
		MaxBufferBytes: o.MaxBufferBytes,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOver reads path on top of base, so keys missing from the file keep
// the values of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Options converts the engine section for engine.New and Engine.Configure.
func (c *Config) Options() engine.Options {
	e := c.Engine
	return engine.Options{
		PaddingFactor:  e.PaddingFactor,
		Regenerate:     e.Regenerate,
		BufferDivisor:  e.BufferDivisor,
		Speed:          engine.Range(e.Speed),
		StringLen:      engine.Range(e.StringLen),
		GapLen:         engine.Range(e.GapLen),
		SlowSpeed:      e.SlowSpeed,
		MaxBufferBytes: e.MaxBufferBytes,
	}
}

// Validate checks the host settings and the engine options.
func (c *Config) Validate() error {
	switch {
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font size %.1f", ErrInvalidConfig, c.FontSize)
	case c.FPS < 1:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.AtlasPath != "" && (c.AtlasCell.Width < 1 || c.AtlasCell.Height < 1):
		return fmt.Errorf("%w: atlas cell %dx%d", ErrInvalidConfig, c.AtlasCell.Width, c.AtlasCell.Height)
	}
	return c.Options().Validate()
}
