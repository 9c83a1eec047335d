package config

import "github.com/san-kum/cascade/internal/atlas"

// Atlas builds the glyph atlas the configuration asks for: the PNG strip at
// AtlasPath when set, Go Mono at FontSize otherwise.
func (c *Config) Atlas(p atlas.Palette) (*atlas.Atlas, error) {
	if c.AtlasPath != "" {
		return atlas.LoadPNG(c.AtlasPath, c.AtlasCell.Width, c.AtlasCell.Height, c.AtlasCell.Reserved, p)
	}
	return atlas.NewFromFont(atlas.FontOptions{Size: c.FontSize, Palette: p})
}
