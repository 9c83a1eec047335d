package engine

import (
	"image"
	"image/color"
)

// Surface is the drawing target the engine scrolls columns on. Rectangles
// outside the surface are clipped by the implementation.
type Surface interface {
	// CopyArea copies src to dst within the surface. Regions may overlap.
	CopyArea(src image.Rectangle, dst image.Point)
	// Blit copies sr of an off-surface buffer to dst.
	Blit(src image.Image, sr image.Rectangle, dst image.Point)
	// FillRect paints r with c. The engine blanks rows in the column buffers
	// and never calls it; it is part of the set for hosts drawing overlays
	// or borders on the same surface.
	FillRect(r image.Rectangle, c color.Color)
	Clear()
}

// Rand is the source of every random pick. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}
