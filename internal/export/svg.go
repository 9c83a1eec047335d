package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DotGrid is a grid of coloured dots, such as a braille canvas.
type DotGrid interface {
	DotSize() (w, h int)
	Dot(x, y int) (color.RGBA, bool)
}

// WriteSVG draws every lit dot of g as a circle, scale units apart.
func WriteSVG(w io.Writer, g DotGrid, scale float64, bg color.Color) error {
	if g == nil {
		return nil
	}
	dw, dh := g.DotSize()
	width := float64(dw) * scale
	height := float64(dh) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(bg)))

	dotRadius := scale * 0.4
	// one group per colour keeps the file small
	groups := map[string][]string{}
	var order []string
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			c, ok := g.Dot(x, y)
			if !ok {
				continue
			}
			fill := hex(c)
			if _, seen := groups[fill]; !seen {
				order = append(order, fill)
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			groups[fill] = append(groups[fill], fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, cx, cy, dotRadius))
		}
	}
	for _, fill := range order {
		sb.WriteString(`<g fill="` + fill + `">` + "\n")
		for _, dot := range groups[fill] {
			sb.WriteString(dot + "\n")
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func hex(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cc.Hex()
}
