package engine

import "fmt"

const (
	DefaultPaddingFactor  = 1.3
	DefaultBufferDivisor  = 4
	DefaultSlowSpeed      = 2
	DefaultMaxBufferBytes = 256 << 20
)

// Range is a half-open integer interval [Min, Max).
type Range struct {
	Min, Max int
}

func (r Range) roll(rng Rand) int {
	return r.Min + rng.IntN(r.Max-r.Min)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Min, r.Max)
}

// Options is the sizing and sequencing policy of an Engine.
type Options struct {
	// PaddingFactor spaces columns PaddingFactor cell widths apart.
	PaddingFactor float64
	// Regenerate rewrites a column buffer each time it is scrolled past.
	// When false the buffer is screen-tall, generated once and repeated,
	// and only the speed changes on exhaustion.
	Regenerate bool
	// BufferDivisor sets the buffer to 1/BufferDivisor of the surface
	// height in Regenerate mode.
	BufferDivisor int

	Speed     Range // pixels per frame, clamped to the cell height
	StringLen Range // glyphs per string
	GapLen    Range // blank rows after a string boundary

	// SlowSpeed and below halve the countdown to the next speed change.
	SlowSpeed int
	// MaxBufferBytes bounds the column buffers of one layout. Zero disables
	// the check.
	MaxBufferBytes int
}

func DefaultOptions() Options {
	return Options{
		PaddingFactor:  DefaultPaddingFactor,
		Regenerate:     true,
		BufferDivisor:  DefaultBufferDivisor,
		Speed:          Range{1, 8},
		StringLen:      Range{15, 20},
		GapLen:         Range{2, 6},
		SlowSpeed:      DefaultSlowSpeed,
		MaxBufferBytes: DefaultMaxBufferBytes,
	}
}

// Validate checks every option against its valid range.
func (o Options) Validate() error {
	switch {
	case o.PaddingFactor <= 0:
		return fmt.Errorf("%w: padding factor %.2f", ErrInvalidOptions, o.PaddingFactor)
	case o.BufferDivisor < 1:
		return fmt.Errorf("%w: buffer divisor %d", ErrInvalidOptions, o.BufferDivisor)
	case o.Speed.Min < 1 || o.Speed.Max <= o.Speed.Min:
		return fmt.Errorf("%w: speed range %s", ErrInvalidOptions, o.Speed)
	case o.StringLen.Min < 1 || o.StringLen.Max <= o.StringLen.Min:
		return fmt.Errorf("%w: string length range %s", ErrInvalidOptions, o.StringLen)
	case o.GapLen.Min < 0 || o.GapLen.Max <= o.GapLen.Min:
		return fmt.Errorf("%w: gap length range %s", ErrInvalidOptions, o.GapLen)
	case o.SlowSpeed < 0:
		return fmt.Errorf("%w: slow speed %d", ErrInvalidOptions, o.SlowSpeed)
	case o.MaxBufferBytes < 0:
		return fmt.Errorf("%w: buffer budget %d", ErrInvalidOptions, o.MaxBufferBytes)
	}
	return nil
}

// clampSpeed limits the speed range to [1, cellHeight] so a frame never
// skips past a whole glyph.
func clampSpeed(r Range, cellHeight int) Range {
	if r.Max > cellHeight+1 {
		r.Max = cellHeight + 1
	}
	if r.Min > cellHeight {
		r.Min = cellHeight
	}
	if r.Max <= r.Min {
		r.Max = r.Min + 1
	}
	return r
}
