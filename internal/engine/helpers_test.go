package engine

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/cascade/internal/atlas"
	"golang.org/x/image/draw"
)

// testAtlas builds a strip where cell i is a bar of i%cellH+1 lit rows, so
// neighbouring cells differ in pixels.
func testAtlas(t testing.TB, cellW, cellH, count, reserved int) *atlas.Atlas {
	t.Helper()
	mask := image.NewAlpha(image.Rect(0, 0, count*cellW, cellH))
	for i := 0; i < count; i++ {
		for y := 0; y <= i%cellH; y++ {
			mask.SetAlpha(i*cellW+cellW/2, y, color.Alpha{A: 0xff})
		}
	}
	a, err := atlas.NewFromMask(mask, cellW, cellH, reserved, atlas.Palette{
		Foreground: color.RGBA{0, 0xaa, 0x22, 0xff},
		Highlight:  color.RGBA{0xcc, 0xff, 0xcc, 0xff},
		Background: color.RGBA{0, 0, 0, 0xff},
	})
	if err != nil {
		t.Fatalf("test atlas: %v", err)
	}
	return a
}

type copyOp struct {
	src image.Rectangle
	dst image.Point
}

type blitOp struct {
	src image.Rectangle
	dst image.Point
	pix *image.RGBA // source rows as they were at blit time
}

// recordingSurface logs every primitive the engine issues.
type recordingSurface struct {
	copies []copyOp
	blits  []blitOp
	fills  int
	clears int
}

func (s *recordingSurface) CopyArea(src image.Rectangle, dst image.Point) {
	s.copies = append(s.copies, copyOp{src, dst})
}

func (s *recordingSurface) Blit(src image.Image, sr image.Rectangle, dst image.Point) {
	pix := image.NewRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	draw.Draw(pix, pix.Bounds(), src, sr.Min, draw.Src)
	s.blits = append(s.blits, blitOp{sr, dst, pix})
}

func (s *recordingSurface) FillRect(image.Rectangle, color.Color) { s.fills++ }
func (s *recordingSurface) Clear()                                { s.clears++ }

func (s *recordingSurface) reset() {
	s.copies, s.blits = nil, nil
	s.fills, s.clears = 0, 0
}

func newTestEngine(t testing.TB, opts Options) (*Engine, *recordingSurface) {
	t.Helper()
	surf := &recordingSurface{}
	e, err := New(surf, rand.New(rand.NewPCG(1, 2)), opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, surf
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

// sameRows reports whether got holds rows [y0, y0+got height) of want.
func sameRows(got *image.RGBA, want *image.RGBA, y0 int) bool {
	b := got.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if got.RGBAAt(x, y) != want.RGBAAt(x, y0+y) {
				return false
			}
		}
	}
	return true
}
