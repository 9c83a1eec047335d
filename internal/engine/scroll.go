package engine

import "image"

// FrameStats counts the pixel work of one or more frames.
type FrameStats struct {
	Frames        int
	ColumnFrames  int // columns advanced, summed over frames
	RowsShifted   int // rows moved by intra-surface copies
	RowsBlitted   int // rows copied from column buffers
	Exhaustions   int
	Regenerations int
	SpeedSum      int
}

// MeanSpeed is the average column speed in pixels per frame.
func (s FrameStats) MeanSpeed() float64 {
	if s.ColumnFrames == 0 {
		return 0
	}
	return float64(s.SpeedSum) / float64(s.ColumnFrames)
}

// Add accumulates o into s.
func (s *FrameStats) Add(o FrameStats) {
	s.Frames += o.Frames
	s.ColumnFrames += o.ColumnFrames
	s.RowsShifted += o.RowsShifted
	s.RowsBlitted += o.RowsBlitted
	s.Exhaustions += o.Exhaustions
	s.Regenerations += o.Regenerations
	s.SpeedSum += o.SpeedSum
}

// LastFrame returns the statistics of the most recent AdvanceFrame.
func (e *Engine) LastFrame() FrameStats { return e.last }

// Totals returns statistics accumulated since the last Retile.
func (e *Engine) Totals() FrameStats { return e.total }

// AdvanceFrame scrolls every column down by its speed.
func (e *Engine) AdvanceFrame() {
	if len(e.columns) == 0 {
		return
	}
	fs := FrameStats{Frames: 1}
	for i := range e.columns {
		e.advance(&e.columns[i], &fs)
	}
	e.last = fs
	e.total.Add(fs)
}

func (e *Engine) advance(c *Column, fs *FrameStats) {
	cw := e.atlas.CellWidth()
	bh := e.layout.BufferHeight
	delta := c.speed

	fs.ColumnFrames++
	fs.SpeedSum += delta

	// Reuse what is already on screen; only delta rows come from the buffer.
	if shift := e.layout.Height - delta; shift > 0 {
		e.surface.CopyArea(image.Rect(c.x, 0, c.x+cw, shift), image.Pt(c.x, delta))
		fs.RowsShifted += shift
	}

	c.readPtr -= delta
	if c.readPtr > 0 {
		fs.RowsBlitted += e.blit(c, c.readPtr, delta, 0)
		return
	}

	// The buffer ran out inside this frame: the last old rows go below the
	// exhaustion point, the first new rows above it.
	fs.RowsBlitted += e.blit(c, 0, delta+c.readPtr, -c.readPtr)
	fs.Exhaustions++
	if e.layout.Regenerate {
		e.generate(c)
		fs.Regenerations++
	} else {
		c.speed = e.speedRange.roll(e.rng)
	}
	// New rows come from the bottom of the new buffer, where the next frame
	// continues reading at readPtr+bh.
	fs.RowsBlitted += e.blit(c, bh+c.readPtr, -c.readPtr, 0)
	c.readPtr += bh
}

// blit copies rows [srcY, srcY+rows) of the column buffer to the column
// strip at dstY and returns the rows copied.
func (e *Engine) blit(c *Column, srcY, rows, dstY int) int {
	if rows <= 0 {
		return 0
	}
	cw := e.atlas.CellWidth()
	e.surface.Blit(c.buf, image.Rect(0, srcY, cw, srcY+rows), image.Pt(c.x, dstY))
	return rows
}
