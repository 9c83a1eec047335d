package metrics

import "github.com/san-kum/cascade/internal/engine"

// Throughput is the mean number of buffer rows blitted per frame.
type Throughput struct {
	name   string
	rows   int
	frames int
}

func NewThroughput() *Throughput {
	return &Throughput{name: "rows_per_frame"}
}

func (t *Throughput) Name() string { return t.name }

func (t *Throughput) Observe(fs engine.FrameStats) {
	t.rows += fs.RowsBlitted
	t.frames += fs.Frames
}

func (t *Throughput) Value() float64 {
	if t.frames == 0 {
		return 0
	}
	return float64(t.rows) / float64(t.frames)
}

func (t *Throughput) Reset() {
	t.rows = 0
	t.frames = 0
}

// CopyRatio is the share of rows drawn by shifting what is already on
// screen rather than copying from column buffers.
type CopyRatio struct {
	name    string
	shifted int
	blitted int
}

func NewCopyRatio() *CopyRatio {
	return &CopyRatio{name: "copy_ratio"}
}

func (c *CopyRatio) Name() string { return c.name }

func (c *CopyRatio) Observe(fs engine.FrameStats) {
	c.shifted += fs.RowsShifted
	c.blitted += fs.RowsBlitted
}

func (c *CopyRatio) Value() float64 {
	total := c.shifted + c.blitted
	if total == 0 {
		return 0
	}
	return float64(c.shifted) / float64(total)
}

func (c *CopyRatio) Reset() {
	c.shifted = 0
	c.blitted = 0
}
