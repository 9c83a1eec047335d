package viz

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// litThreshold is the luma difference from the background, out of 255, at
// which a dot is drawn.
const litThreshold = 40

// Canvas is a grid of braille cells, each with one foreground colour.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA

	styles map[color.RGBA]lipgloss.Style
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
		styles: make(map[color.RGBA]lipgloss.Style),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
	}
	c.Clear()
	return c
}

// Set sets a dot at (x, y) in dot coordinates. The canvas is Width*2 by
// Height*4 dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a dot and keeps the brighter of the cell colour and col.
func (c *Canvas) SetColor(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	cell := &c.Colors[y/4][x/2]
	if luma(col) > luma(*cell) {
		*cell = col
	}
}

// Unset clears a dot
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBase {
		c.Grid[row][col] = brailleBase
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = color.RGBA{}
		}
	}
}

func (c *Canvas) DotSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Dot reports whether a dot is lit and the colour of its cell.
func (c *Canvas) Dot(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return color.RGBA{}, false
	}
	r := c.Grid[y/4][x/2]
	if int(r-brailleBase)&pixelMap[y%4][x%2] == 0 {
		return color.RGBA{}, false
	}
	return c.Colors[y/4][x/2], true
}

// Downsample redraws the canvas from img. Each dot covers an equal share of
// the image and is lit when its brightest pixel stands out from bg.
func (c *Canvas) Downsample(img *image.RGBA, bg color.Color) {
	c.Clear()
	dw, dh := c.DotSize()
	b := img.Rect
	if dw == 0 || dh == 0 || b.Empty() {
		return
	}
	bgLuma := luma(color.RGBAModel.Convert(bg).(color.RGBA))

	for dy := 0; dy < dh; dy++ {
		y0 := b.Min.Y + dy*b.Dy()/dh
		y1 := max(b.Min.Y+(dy+1)*b.Dy()/dh, y0+1)
		for dx := 0; dx < dw; dx++ {
			x0 := b.Min.X + dx*b.Dx()/dw
			x1 := max(b.Min.X+(dx+1)*b.Dx()/dw, x0+1)

			var best color.RGBA
			bestLuma := -1
			for y := y0; y < y1 && y < b.Max.Y; y++ {
				for x := x0; x < x1 && x < b.Max.X; x++ {
					p := img.RGBAAt(x, y)
					if l := luma(p); l > bestLuma {
						best, bestLuma = p, l
					}
				}
			}
			if bestLuma-bgLuma >= litThreshold {
				c.SetColor(dx, dy, best)
			}
		}
	}
}

func luma(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the canvas with each cell in its colour, dimmed towards bg
// in Lab space by how few of its dots are lit.
func (c *Canvas) Render(bg lipgloss.Color) string {
	bgc, err := colorful.Hex(string(bg))
	if err != nil {
		bgc = colorful.Color{}
	}

	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		var runColor color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == (color.RGBA{}) {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.style(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for col, r := range c.Grid[row] {
			cellColor := color.RGBA{}
			if r != brailleBase {
				cellColor = dim(c.Colors[row][col], bgc, dots(r))
			}
			if cellColor != runColor {
				flush()
				runColor = cellColor
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Canvas) style(col color.RGBA) lipgloss.Style {
	if s, ok := c.styles[col]; ok {
		return s
	}
	cc, _ := colorful.MakeColor(col)
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(cc.Hex()))
	c.styles[col] = s
	return s
}

func dots(r rune) int {
	n := 0
	for v := int(r - brailleBase); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// dim quantises the blend so a frame uses few distinct styles.
func dim(col color.RGBA, bg colorful.Color, lit int) color.RGBA {
	cc, ok := colorful.MakeColor(col)
	if !ok {
		return col
	}
	t := 0.55 + 0.45*float64(lit)/8
	r, g, b := bg.BlendLab(cc, t).Clamped().RGB255()
	return color.RGBA{R: r &^ 7, G: g &^ 7, B: b &^ 7, A: 0xff}
}
