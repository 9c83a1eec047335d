package metrics

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/engine"
)

func TestThroughput(t *testing.T) {
	m := NewThroughput()
	m.Observe(engine.FrameStats{Frames: 1, RowsBlitted: 10})
	m.Observe(engine.FrameStats{Frames: 1, RowsBlitted: 20})

	if m.Value() != 15 {
		t.Errorf("expected 15 rows per frame, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCopyRatio(t *testing.T) {
	m := NewCopyRatio()
	if m.Value() != 0 {
		t.Error("expected zero with no samples")
	}
	m.Observe(engine.FrameStats{RowsShifted: 90, RowsBlitted: 10})
	if math.Abs(m.Value()-0.9) > 1e-9 {
		t.Errorf("expected 0.9, got %f", m.Value())
	}
}

func TestRegenerationRate(t *testing.T) {
	m := NewRegenerationRate()
	m.Observe(engine.FrameStats{ColumnFrames: 8, Regenerations: 2})
	if m.Value() != 0.25 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}

func TestStandardSetOnEngine(t *testing.T) {
	e, err := engine.New(nopSurface{}, rand.New(rand.NewPCG(3, 4)), engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Retile(120, 960, fontAtlas(t)); err != nil {
		t.Fatal(err)
	}

	set := Standard()
	for i := 0; i < 500; i++ {
		e.AdvanceFrame()
		set.Observe(e.LastFrame())
	}

	sum := set.Summary()
	if len(sum) != 4 {
		t.Fatalf("expected 4 metrics, got %v", sum)
	}
	if got, want := sum["mean_speed"], e.Totals().MeanSpeed(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected mean speed %f, got %f", want, got)
	}
	if sum["mean_speed"] < 1 || sum["mean_speed"] >= 8 {
		t.Errorf("mean speed %f outside the speed range", sum["mean_speed"])
	}
	if sum["rows_per_frame"] != float64(e.Totals().SpeedSum)/500 {
		t.Errorf("expected rows per frame to equal total travel, got %f", sum["rows_per_frame"])
	}
	if sum["copy_ratio"] < 0.9 {
		t.Errorf("expected most rows to be shifted, got %f", sum["copy_ratio"])
	}
	if sum["regenerations"] <= 0 {
		t.Error("expected regenerations over 500 frames")
	}

	set.Reset()
	for name, v := range set.Summary() {
		if v != 0 {
			t.Errorf("%s: expected zero after reset, got %f", name, v)
		}
	}
}

type nopSurface struct{}

func (nopSurface) CopyArea(image.Rectangle, image.Point)          {}
func (nopSurface) Blit(image.Image, image.Rectangle, image.Point) {}
func (nopSurface) FillRect(image.Rectangle, color.Color)          {}
func (nopSurface) Clear()                                         {}

func fontAtlas(t *testing.T) *atlas.Atlas {
	t.Helper()
	a, err := atlas.NewFromFont(atlas.FontOptions{Size: 18})
	if err != nil {
		t.Fatal(err)
	}
	return a
}
