package engine

import (
	"image"

	"github.com/san-kum/cascade/internal/atlas"
	"golang.org/x/image/draw"
)

// CellKind classifies one glyph row of a column buffer.
type CellKind uint8

const (
	Blank CellKind = iota
	Plain
	Lead // highlighted glyph at the falling end of a string
)

func (k CellKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Lead:
		return "lead"
	}
	return "blank"
}

// Cell records what was written to one glyph row.
type Cell struct {
	Kind  CellKind
	Index int
}

func (c Cell) variant() atlas.Variant {
	if c.Kind == Lead {
		return atlas.Highlighted
	}
	return atlas.Normal
}

// Column is one independently scrolling glyph stream.
type Column struct {
	x     int
	buf   *image.RGBA
	cells []Cell // one per glyph row, top to bottom

	readPtr         int
	speed           int
	speedCountdown  int
	stringRemaining int
	gapRemaining    int
	leadingEdge     bool

	generation int
}

func (c *Column) X() int               { return c.x }
func (c *Column) ReadPtr() int         { return c.readPtr }
func (c *Column) Speed() int           { return c.speed }
func (c *Column) SpeedCountdown() int  { return c.speedCountdown }
func (c *Column) StringRemaining() int { return c.stringRemaining }
func (c *Column) GapRemaining() int    { return c.gapRemaining }
func (c *Column) LeadingEdge() bool    { return c.leadingEdge }

// Generation counts buffer regenerations since the column was created.
func (c *Column) Generation() int { return c.generation }

// Buffer is the column's pixel buffer. Callers must not modify it.
func (c *Column) Buffer() image.Image { return c.buf }

// Cells returns a copy of the glyph rows of the current buffer, top to bottom.
func (c *Column) Cells() []Cell {
	out := make([]Cell, len(c.cells))
	copy(out, c.cells)
	return out
}

// generate refills the column buffer with freshly rolled glyph rows.
func (e *Engine) generate(c *Column) {
	e.plan(c)
	e.paint(c)
}

// plan rolls the glyph rows of the next buffer from the bottom row upwards,
// so strings emerge at the bottom and fall out of view in order. It is the
// only part of generation that draws from the random source.
func (e *Engine) plan(c *Column) {
	for row := len(c.cells) - 1; row >= 0; row-- {
		e.scheduleSpeed(c)

		switch {
		case c.gapRemaining > 0:
			c.gapRemaining--
			c.cells[row] = Cell{}
		case c.stringRemaining == 0:
			// The boundary row stays blank; the gap starts on the next row.
			c.gapRemaining = e.opts.GapLen.roll(e.rng)
			c.stringRemaining = e.opts.StringLen.roll(e.rng)
			c.leadingEdge = true
			c.cells[row] = Cell{}
		default:
			c.cells[row] = e.pickGlyph(c)
			c.stringRemaining--
		}
	}
	c.generation++
}

// paint rasterises the planned rows into the column buffer. Columns share
// only read-only atlas images, so distinct columns may paint concurrently.
func (e *Engine) paint(c *Column) {
	cw, ch := e.atlas.CellWidth(), e.atlas.CellHeight()
	draw.Draw(c.buf, c.buf.Bounds(), e.bg, image.Point{}, draw.Src)
	for row, cell := range c.cells {
		if cell.Kind == Blank {
			continue
		}
		src := e.atlas.Cell(cell.Index)
		dst := image.Rect(0, row*ch, cw, (row+1)*ch)
		draw.Draw(c.buf, dst, e.atlas.Image(cell.variant()), src.Min, draw.Src)
	}
}

// generateAll regenerates every column, rolling serially and painting in
// parallel so a seeded engine stays deterministic.
func (e *Engine) generateAll() {
	for i := range e.columns {
		e.plan(&e.columns[i])
	}
	parallelFor(len(e.columns), minPaintChunk, func(start, end int) {
		for i := start; i < end; i++ {
			e.paint(&e.columns[i])
		}
	})
}

func (e *Engine) pickGlyph(c *Column) Cell {
	count, reserved := e.atlas.Count(), e.atlas.Reserved()
	if c.leadingEdge {
		c.leadingEdge = false
		return Cell{Kind: Lead, Index: reserved + e.rng.IntN(count-reserved)}
	}
	return Cell{Kind: Plain, Index: e.rng.IntN(count)}
}

func (e *Engine) scheduleSpeed(c *Column) {
	if c.speedCountdown > 0 {
		c.speedCountdown--
		return
	}
	c.speed = e.speedRange.roll(e.rng)
	c.speedCountdown = e.layout.SpeedUpdateInterval
	if c.speed <= e.opts.SlowSpeed {
		c.speedCountdown /= 2
	}
}
