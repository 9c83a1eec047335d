package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrInvalidAtlas indicates a strip whose geometry cannot be split into cells.
var ErrInvalidAtlas = errors.New("atlas: invalid glyph strip")

// Variant selects one of the two color renderings of the strip.
type Variant int

const (
	Normal Variant = iota
	Highlighted
)

func (v Variant) String() string {
	if v == Highlighted {
		return "highlighted"
	}
	return "normal"
}

// Palette holds the colors a strip is tinted with.
type Palette struct {
	Foreground color.Color
	Highlight  color.Color
	Background color.Color
}

// Atlas is an immutable one-row strip of fixed-size glyph cells.
// Indices [0, Reserved) are plain glyphs that never lead a string.
type Atlas struct {
	cellWidth  int
	cellHeight int
	count      int
	reserved   int
	background color.Color
	variants   [2]*image.RGBA
}

// NewFromMask tints an alpha strip into both variants. The strip width must be
// a whole number of cells and must hold more cells than are reserved.
func NewFromMask(mask *image.Alpha, cellW, cellH, reserved int, p Palette) (*Atlas, error) {
	if mask == nil || cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: cell %dx%d", ErrInvalidAtlas, cellW, cellH)
	}
	b := mask.Bounds()
	if b.Dx()%cellW != 0 || b.Dy() < cellH {
		return nil, fmt.Errorf("%w: strip %dx%d is not a row of %dx%d cells", ErrInvalidAtlas, b.Dx(), b.Dy(), cellW, cellH)
	}
	count := b.Dx() / cellW
	if reserved < 0 || reserved >= count {
		return nil, fmt.Errorf("%w: %d reserved of %d cells", ErrInvalidAtlas, reserved, count)
	}
	if p.Background == nil {
		p.Background = color.Black
	}
	if p.Foreground == nil {
		p.Foreground = color.White
	}
	if p.Highlight == nil {
		p.Highlight = p.Foreground
	}

	a := &Atlas{
		cellWidth:  cellW,
		cellHeight: cellH,
		count:      count,
		reserved:   reserved,
		background: p.Background,
	}
	rect := image.Rect(0, 0, count*cellW, cellH)
	for i, fg := range []color.Color{p.Foreground, p.Highlight} {
		img := image.NewRGBA(rect)
		draw.Draw(img, rect, image.NewUniform(p.Background), image.Point{}, draw.Src)
		draw.DrawMask(img, rect, image.NewUniform(fg), image.Point{}, mask, b.Min, draw.Over)
		a.variants[i] = img
	}
	return a, nil
}

func (a *Atlas) CellWidth() int  { return a.cellWidth }
func (a *Atlas) CellHeight() int { return a.cellHeight }
func (a *Atlas) Count() int      { return a.count }
func (a *Atlas) Reserved() int   { return a.reserved }

// Background is the color blank rows are cleared to.
func (a *Atlas) Background() color.Color { return a.background }

// Image returns the strip for a variant. Callers must not modify it.
func (a *Atlas) Image(v Variant) image.Image {
	return a.variants[v]
}

// Cell returns the bounds of cell index within the strip.
func (a *Atlas) Cell(index int) image.Rectangle {
	x := index * a.cellWidth
	return image.Rect(x, 0, x+a.cellWidth, a.cellHeight)
}

// Ink reports whether any pixel of the cell differs from the background.
func (a *Atlas) Ink(v Variant, index int) bool {
	bg := color.RGBAModel.Convert(a.background).(color.RGBA)
	img := a.variants[v]
	r := a.Cell(index)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				return true
			}
		}
	}
	return false
}
