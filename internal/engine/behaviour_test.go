package engine_test

import (
	"errors"
	"image/color"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/engine"
	"github.com/san-kum/cascade/internal/surface"
)

var _ = Describe("Engine", func() {
	var (
		a    *atlas.Atlas
		fb   *surface.Image
		opts engine.Options
	)

	newEngine := func() *engine.Engine {
		e, err := engine.New(fb, rand.New(rand.NewPCG(7, 11)), opts)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		a = solidAtlas()
		fb = surface.New(120, 960, background)
		opts = engine.DefaultOptions()
	})

	Describe("Retile", func() {
		It("lays out a tall narrow surface", func() {
			e := newEngine()
			Expect(e.Retile(120, 960, a)).To(Succeed())

			l := e.Layout()
			Expect(l.Columns).To(Equal(7))
			Expect(l.CharsPerBuffer).To(Equal(10))
			Expect(l.BufferHeight).To(Equal(240))
			Expect(l.SpeedUpdateInterval).To(Equal(20))

			for i := 0; i < e.NumColumns(); i++ {
				c := e.Column(i)
				Expect(c.ReadPtr()).To(Equal(240))
				Expect(c.Speed()).To(BeNumerically(">=", 1))
				Expect(c.Speed()).To(BeNumerically("<", 8))
				Expect(c.Generation()).To(Equal(1))
			}
		})

		It("spaces columns evenly across the width", func() {
			e := newEngine()
			Expect(e.Retile(120, 960, a)).To(Succeed())
			for i := 1; i < e.NumColumns(); i++ {
				gap := e.Column(i).X() - e.Column(i-1).X()
				Expect(gap).To(BeNumerically("~", 120/7, 1))
			}
		})

		DescribeTable("clamps degenerate surfaces",
			func(w, h int) {
				fb.Resize(w, h)
				e := newEngine()
				Expect(e.Retile(w, h, a)).To(Succeed())
				Expect(e.NumColumns()).To(Equal(1))
				Expect(e.Layout().BufferHeight).To(Equal(24))
				Expect(func() {
					for i := 0; i < 100; i++ {
						e.AdvanceFrame()
					}
				}).NotTo(Panic())
			},
			Entry("empty", 0, 0),
			Entry("negative", -5, -5),
			Entry("one pixel", 1, 1),
			Entry("narrower than a cell", 10, 40),
		)

		It("reports an allocation failure over budget", func() {
			opts.MaxBufferBytes = 1024
			e := newEngine()
			err := e.Retile(120, 960, a)
			Expect(err).To(MatchError(engine.ErrAllocation))

			var le *engine.LayoutError
			Expect(errors.As(err, &le)).To(BeTrue())
			Expect(le.Columns).To(Equal(7))
			Expect(le.Bytes).To(BeNumerically(">", 1024))
			Expect(e.NumColumns()).To(BeZero())
		})

		It("rejects a missing atlas", func() {
			e := newEngine()
			Expect(e.Retile(120, 960, nil)).To(MatchError(engine.ErrNoAtlas))
		})
	})

	Describe("AdvanceFrame", func() {
		It("is a no-op before the first Retile", func() {
			e := newEngine()
			Expect(e.AdvanceFrame).NotTo(Panic())
			Expect(e.Totals().Frames).To(BeZero())
		})

		Context("at one pixel per frame", func() {
			BeforeEach(func() {
				opts.Speed = engine.Range{Min: 1, Max: 2}
			})

			It("reveals one buffer row per frame", func() {
				e := newEngine()
				Expect(e.Retile(120, 960, a)).To(Succeed())
				e.AdvanceFrame()
				for i := 0; i < e.NumColumns(); i++ {
					Expect(e.Column(i).ReadPtr()).To(Equal(239))
				}
			})

			It("regenerates once the buffer is used up", func() {
				e := newEngine()
				Expect(e.Retile(120, 960, a)).To(Succeed())
				for f := 0; f < 240; f++ {
					e.AdvanceFrame()
				}
				for i := 0; i < e.NumColumns(); i++ {
					c := e.Column(i)
					Expect(c.Generation()).To(Equal(2))
					Expect(c.ReadPtr()).To(Equal(240))
				}
				Expect(e.Totals().Regenerations).To(Equal(7))
			})

			It("slides the bottom of the buffer into view", func() {
				e := newEngine()
				Expect(e.Retile(120, 960, a)).To(Succeed())
				const frames = 100
				for f := 0; f < frames; f++ {
					e.AdvanceFrame()
				}

				img := fb.RGBA()
				for i := 0; i < e.NumColumns(); i++ {
					c := e.Column(i)
					buf := c.Buffer()
					for y := 0; y < frames; y++ {
						for x := 0; x < a.CellWidth(); x++ {
							want := color.RGBAModel.Convert(buf.At(x, 240-frames+y))
							Expect(img.RGBAAt(c.X()+x, y)).To(Equal(want), "column %d row %d", i, y)
						}
					}
					Expect(img.RGBAAt(c.X()+a.CellWidth()/2, frames)).To(Equal(background))
				}
			})
		})

		It("wraps a fast column through the buffer end", func() {
			opts.Speed = engine.Range{Min: 7, Max: 8}
			e := newEngine()
			Expect(e.Retile(120, 960, a)).To(Succeed())
			for f := 0; f < 35; f++ {
				e.AdvanceFrame()
			}
			for i := 0; i < e.NumColumns(); i++ {
				Expect(e.Column(i).ReadPtr()).To(Equal(235))
				Expect(e.Column(i).Generation()).To(Equal(2))
			}
			Expect(e.LastFrame().RowsBlitted).To(Equal(7 * 7))
		})
	})

	Describe("resets", func() {
		var e *engine.Engine

		BeforeEach(func() {
			e = newEngine()
			Expect(e.Retile(120, 960, a)).To(Succeed())
			for f := 0; f < 50; f++ {
				e.AdvanceFrame()
			}
		})

		It("reflows without regenerating", func() {
			e.Reflow()
			for i := 0; i < e.NumColumns(); i++ {
				Expect(e.Column(i).ReadPtr()).To(Equal(240))
			}
			Expect(fb.RGBA().RGBAAt(e.Column(0).X()+6, 0)).To(Equal(background))
		})

		It("regenerates every column on a full reset", func() {
			before := make([]int, e.NumColumns())
			for i := range before {
				before[i] = e.Column(i).Generation()
			}
			e.FullReset()
			for i := 0; i < e.NumColumns(); i++ {
				Expect(e.Column(i).Generation()).To(Equal(before[i] + 1))
				Expect(e.Column(i).ReadPtr()).To(Equal(240))
			}
		})

		It("tears down idempotently", func() {
			e.Teardown()
			e.Teardown()
			Expect(e.NumColumns()).To(BeZero())
			Expect(e.AdvanceFrame).NotTo(Panic())
		})
	})
})
