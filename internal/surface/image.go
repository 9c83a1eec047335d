// Package surface provides an in-memory RGBA framebuffer that hosts scroll
// the engine on and then present (terminal, window, GIF).
package surface

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Image is a fixed-size RGBA framebuffer.
type Image struct {
	img *image.RGBA
	bg  *image.Uniform
}

func New(width, height int, bg color.Color) *Image {
	if bg == nil {
		bg = color.Black
	}
	s := &Image{bg: image.NewUniform(bg)}
	s.Resize(width, height)
	return s
}

// Resize reallocates the framebuffer. Content is discarded.
func (s *Image) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	s.Clear()
}

// SetBackground changes the clear color from the next Clear.
func (s *Image) SetBackground(bg color.Color) {
	s.bg = image.NewUniform(bg)
}

func (s *Image) Width() int              { return s.img.Rect.Dx() }
func (s *Image) Height() int             { return s.img.Rect.Dy() }
func (s *Image) Bounds() image.Rectangle { return s.img.Rect }

// RGBA exposes the framebuffer for presentation. It is overwritten by the
// next frame.
func (s *Image) RGBA() *image.RGBA { return s.img }

// Snapshot returns a copy of the framebuffer.
func (s *Image) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

func (s *Image) CopyArea(src image.Rectangle, dst image.Point) {
	if src.Empty() {
		return
	}
	draw.Draw(s.img, image.Rectangle{Min: dst, Max: dst.Add(src.Size())}, s.img, src.Min, draw.Src)
}

func (s *Image) Blit(src image.Image, sr image.Rectangle, dst image.Point) {
	if sr.Empty() {
		return
	}
	draw.Draw(s.img, image.Rectangle{Min: dst, Max: dst.Add(sr.Size())}, src, sr.Min, draw.Src)
}

func (s *Image) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Image) Clear() {
	draw.Draw(s.img, s.img.Rect, s.bg, image.Point{}, draw.Src)
}
