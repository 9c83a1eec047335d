package atlas

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParsePalette builds a Palette from "#rrggbb" strings.
func ParsePalette(fg, highlight, bg string) (Palette, error) {
	var p Palette
	for _, c := range []struct {
		hex string
		dst *color.Color
	}{
		{fg, &p.Foreground},
		{highlight, &p.Highlight},
		{bg, &p.Background},
	} {
		rgba, err := parseHex(c.hex)
		if err != nil {
			return Palette{}, err
		}
		*c.dst = rgba
	}
	return p, nil
}

func parseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("atlas: color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
