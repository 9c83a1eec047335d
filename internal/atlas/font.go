package atlas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultGlyphs is the built-in glyph set. The ten digits come first so that
// they form the reserved plain range.
const DefaultGlyphs = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"ΓΔΘΛΞΠΣΦΨΩ" +
	"БДЖИЛФЦЧШЭЮЯ" +
	"$+<=>@*"

// DefaultReserved is the number of leading digits in DefaultGlyphs.
const DefaultReserved = 10

type FontOptions struct {
	Size     float64 // points
	DPI      float64
	Glyphs   string
	Reserved int
	Palette  Palette
}

// NewFromFont rasterises Glyphs with Go Mono, one glyph per cell. The cell is
// the advance of 'M' wide and ascent+descent tall.
func NewFromFont(opts FontOptions) (*Atlas, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("%w: font size %.1f", ErrInvalidAtlas, opts.Size)
	}
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	if opts.Glyphs == "" {
		opts.Glyphs = DefaultGlyphs
		opts.Reserved = DefaultReserved
	}

	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("atlas: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     opts.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: font face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("%w: font has no advance for 'M'", ErrInvalidAtlas)
	}
	cellW := adv.Ceil()
	cellH := (m.Ascent + m.Descent).Ceil()
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: font size %.1f too small", ErrInvalidAtlas, opts.Size)
	}

	glyphs := []rune(opts.Glyphs)
	mask := image.NewAlpha(image.Rect(0, 0, len(glyphs)*cellW, cellH))
	d := font.Drawer{Src: image.Opaque, Face: face}
	for i, r := range glyphs {
		cell := image.Rect(i*cellW, 0, (i+1)*cellW, cellH)
		d.Dst = mask.SubImage(cell).(*image.Alpha)
		d.Dot = fixed.P(cell.Min.X, m.Ascent.Ceil())
		d.DrawString(string(r))
	}
	return NewFromMask(mask, cellW, cellH, opts.Reserved, opts.Palette)
}

// LoadPNG reads a one-row strip from disk. Brightness times alpha is ink.
func LoadPNG(path string, cellW, cellH, reserved int, p Palette) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("atlas: decode %s: %w", path, err)
	}
	b := img.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			mask.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: g.Y})
		}
	}
	return NewFromMask(mask, cellW, cellH, reserved, p)
}
