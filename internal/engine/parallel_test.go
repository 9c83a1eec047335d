package engine

import (
	"bytes"
	"image"
	"sync/atomic"
	"testing"
)

func TestParallelFor(t *testing.T) {
	tests := []struct {
		n, minChunk int
	}{
		{0, 8},
		{5, 8},
		{8, 8},
		{9, 8},
		{100, 8},
		{1000, 1},
	}

	for _, tt := range tests {
		hits := make([]int32, tt.n)
		parallelFor(tt.n, tt.minChunk, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d: expected index %d visited once, got %d", tt.n, i, h)
			}
		}
	}
}

func TestGenerateAllDeterministic(t *testing.T) {
	a := testAtlas(t, 12, 24, 65, 10)
	buffers := func() [][]byte {
		e, _ := newTestEngine(t, DefaultOptions())
		if err := e.Retile(3000, 960, a); err != nil {
			t.Fatal(err)
		}
		e.FullReset()
		out := make([][]byte, e.NumColumns())
		for i := range out {
			out[i] = cloneRGBA(e.Column(i).Buffer().(*image.RGBA)).Pix
		}
		return out
	}

	first, second := buffers(), buffers()
	if len(first) <= minPaintChunk {
		t.Fatalf("expected more than %d columns, got %d", minPaintChunk, len(first))
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatalf("column %d differs between identically seeded engines", i)
		}
	}
}

func TestPaintMatchesCells(t *testing.T) {
	e, _ := newTestEngine(t, DefaultOptions())
	a := testAtlas(t, 12, 24, 65, 10)
	if err := e.Retile(120, 960, a); err != nil {
		t.Fatal(err)
	}

	c := e.Column(0)
	buf := c.Buffer().(*image.RGBA)
	bg := a.Background()
	for row, cell := range c.Cells() {
		// testAtlas lights the top pixel of every cell's centre line
		got := buf.At(6, row*24)
		if cell.Kind == Blank {
			if got != bg {
				t.Errorf("row %d: expected background, got %v", row, got)
			}
			continue
		}
		if want := a.Image(cell.variant()).At(a.Cell(cell.Index).Min.X+6, 0); got != want {
			t.Errorf("row %d: expected %v, got %v", row, want, got)
		}
	}
}
