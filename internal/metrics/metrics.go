// Package metrics summarises the per-frame work of an engine.
package metrics

import "github.com/san-kum/cascade/internal/engine"

type Metric interface {
	Name() string
	Observe(fs engine.FrameStats)
	Value() float64
	Reset()
}

// Set observes frames with several metrics at once.
type Set struct {
	metrics []Metric
}

func NewSet(m ...Metric) *Set {
	return &Set{metrics: m}
}

// Standard is the set recorded with every run.
func Standard() *Set {
	return NewSet(NewThroughput(), NewCopyRatio(), NewRegenerationRate(), NewMeanSpeed())
}

func (s *Set) Observe(fs engine.FrameStats) {
	for _, m := range s.metrics {
		m.Observe(fs)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Metrics() []Metric { return s.metrics }

// Summary maps metric names to their current values.
func (s *Set) Summary() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
