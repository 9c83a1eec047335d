package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/san-kum/cascade/internal/atlas"
)

// Layout describes the column geometry derived from a surface size.
type Layout struct {
	Width, Height       int
	Columns             int
	CharsPerBuffer      int
	BufferHeight        int
	SpeedUpdateInterval int
	Regenerate          bool
}

// Bytes is the memory held by the column buffers of the layout.
func (l Layout) Bytes(cellWidth int) int {
	return l.Columns * cellWidth * l.BufferHeight * 4
}

// ComputeLayout sizes columns and buffers for a surface. Degenerate sizes are
// clamped to one column of one glyph row.
func ComputeLayout(width, height, cellWidth, cellHeight int, o Options) Layout {
	width, height = max(width, 0), max(height, 0)

	cols := int(float64(width) / (o.PaddingFactor * float64(cellWidth)))
	divisor := 1
	if o.Regenerate {
		divisor = o.BufferDivisor
	}
	chars := height / (divisor * cellHeight)

	l := Layout{
		Width:               width,
		Height:              height,
		Columns:             max(cols, 1),
		CharsPerBuffer:      max(chars, 1),
		SpeedUpdateInterval: height / (2 * cellHeight),
		Regenerate:          o.Regenerate,
	}
	l.BufferHeight = l.CharsPerBuffer * cellHeight
	return l
}

// Engine scrolls a set of columns over a Surface.
type Engine struct {
	surface Surface
	rng     Rand
	opts    Options
	logger  *log.Logger

	atlas      *atlas.Atlas
	bg         *image.Uniform
	layout     Layout
	speedRange Range
	columns    []Column
	pool       *bufferPool

	last  FrameStats
	total FrameStats
}

// New creates an engine drawing on s. A nil rng seeds one from the clock.
func New(s Surface, rng Rand, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17))
	}
	return &Engine{
		surface: s,
		rng:     rng,
		opts:    opts,
		logger:  log.New(io.Discard, "", 0),
	}, nil
}

// SetLogger routes layout diagnostics to l.
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	e.logger = l
}

// Configure replaces the options. They apply from the next Retile.
func (e *Engine) Configure(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

func (e *Engine) Options() Options { return e.opts }
func (e *Engine) Layout() Layout   { return e.layout }
func (e *Engine) NumColumns() int  { return len(e.columns) }

// Column returns column i for inspection.
func (e *Engine) Column(i int) *Column { return &e.columns[i] }

// Atlas is the atlas of the current layout, nil before Retile.
func (e *Engine) Atlas() *atlas.Atlas { return e.atlas }

// Retile releases the current columns and lays out new ones for a surface of
// width x height. Every column is generated immediately and starts with its
// whole buffer still to be revealed.
func (e *Engine) Retile(width, height int, a *atlas.Atlas) error {
	if a == nil {
		return ErrNoAtlas
	}
	e.Teardown()

	cw, ch := a.CellWidth(), a.CellHeight()
	l := ComputeLayout(width, height, cw, ch, e.opts)
	if need := l.Bytes(cw); e.opts.MaxBufferBytes > 0 && need > e.opts.MaxBufferBytes {
		return &LayoutError{Columns: l.Columns, BufferHeight: l.BufferHeight, Bytes: need, Wrapped: ErrAllocation}
	}

	if e.pool == nil || !e.pool.fits(cw, l.BufferHeight) {
		e.pool = newBufferPool(cw, l.BufferHeight)
	}
	columns, err := e.allocate(l)
	if err != nil {
		return &LayoutError{Columns: l.Columns, BufferHeight: l.BufferHeight, Bytes: l.Bytes(cw), Wrapped: err}
	}

	e.atlas = a
	e.bg = image.NewUniform(a.Background())
	e.layout = l
	e.speedRange = clampSpeed(e.opts.Speed, ch)
	e.columns = columns
	e.last, e.total = FrameStats{}, FrameStats{}

	e.surface.Clear()
	e.generateAll()
	e.logger.Printf("retile %dx%d: %d columns, buffer %d rows (%d glyphs), speed %s, regenerate=%t",
		l.Width, l.Height, l.Columns, l.BufferHeight, l.CharsPerBuffer, e.speedRange, l.Regenerate)
	return nil
}

// RetileWithFallback retiles and, when the buffers cannot be allocated,
// retries once with regeneration on and the buffer divisor doubled. The
// smaller options stay configured after a successful retry.
func (e *Engine) RetileWithFallback(width, height int, a *atlas.Atlas) error {
	err := e.Retile(width, height, a)
	if !errors.Is(err, ErrAllocation) {
		return err
	}
	opts := e.opts
	opts.Regenerate = true
	opts.BufferDivisor *= 2
	e.logger.Printf("retile %dx%d: %v; retrying with buffer divisor %d", width, height, err, opts.BufferDivisor)

	prev := e.opts
	e.opts = opts
	if err := e.Retile(width, height, a); err != nil {
		e.opts = prev
		return err
	}
	return nil
}

func (e *Engine) allocate(l Layout) (columns []Column, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			for i := range columns {
				e.pool.Put(columns[i].buf)
			}
			columns, err = nil, fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	columns = make([]Column, l.Columns)
	xDistance := float64(l.Width) / float64(l.Columns)
	for i := range columns {
		columns[i] = Column{
			x:       int(float64(i) * xDistance),
			buf:     e.pool.Get(),
			cells:   make([]Cell, l.CharsPerBuffer),
			readPtr: l.BufferHeight,
		}
	}
	return columns, nil
}

// Reflow clears the surface and restarts every column from the bottom of its
// existing buffer without regenerating it.
func (e *Engine) Reflow() {
	if len(e.columns) == 0 {
		return
	}
	e.surface.Clear()
	for i := range e.columns {
		e.columns[i].readPtr = e.layout.BufferHeight
	}
}

// FullReset clears the surface, forces a new speed and a new string on every
// column and regenerates every buffer.
func (e *Engine) FullReset() {
	if len(e.columns) == 0 {
		return
	}
	e.surface.Clear()
	for i := range e.columns {
		c := &e.columns[i]
		c.readPtr = e.layout.BufferHeight
		c.speedCountdown = 0
		c.stringRemaining = 0
	}
	e.generateAll()
}

// Teardown releases every column buffer. It is safe to call repeatedly.
func (e *Engine) Teardown() {
	if e.pool != nil {
		for i := range e.columns {
			e.pool.Put(e.columns[i].buf)
		}
	}
	e.columns = nil
	e.layout = Layout{}
}
