package metrics

import "github.com/san-kum/cascade/internal/engine"

// RegenerationRate is the number of buffer regenerations per column frame.
type RegenerationRate struct {
	name          string
	regenerations int
	columnFrames  int
}

func NewRegenerationRate() *RegenerationRate {
	return &RegenerationRate{name: "regenerations"}
}

func (r *RegenerationRate) Name() string { return r.name }

func (r *RegenerationRate) Observe(fs engine.FrameStats) {
	r.regenerations += fs.Regenerations
	r.columnFrames += fs.ColumnFrames
}

func (r *RegenerationRate) Value() float64 {
	if r.columnFrames == 0 {
		return 0
	}
	return float64(r.regenerations) / float64(r.columnFrames)
}

func (r *RegenerationRate) Reset() {
	r.regenerations = 0
	r.columnFrames = 0
}

type MeanSpeed struct {
	name  string
	total engine.FrameStats
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(fs engine.FrameStats) {
	m.total.SpeedSum += fs.SpeedSum
	m.total.ColumnFrames += fs.ColumnFrames
}

func (m *MeanSpeed) Value() float64 { return m.total.MeanSpeed() }

func (m *MeanSpeed) Reset() { m.total = engine.FrameStats{} }
