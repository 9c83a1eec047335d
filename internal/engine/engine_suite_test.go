package engine_test

import (
	"image"
	"image/color"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/cascade/internal/atlas"
)

func TestEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Engine Suite")
}

var (
	background = color.RGBA{0, 0, 0, 0xff}
	ink        = color.RGBA{0, 0xcc, 0x33, 0xff}
)

// solidAtlas is a 12x24 strip of 65 glyphs with cell i lighting a bar of
// i%24+1 rows.
func solidAtlas() *atlas.Atlas {
	const cw, ch, count = 12, 24, 65
	mask := image.NewAlpha(image.Rect(0, 0, count*cw, ch))
	for i := 0; i < count; i++ {
		for y := 0; y <= i%ch; y++ {
			for x := 2; x < cw-2; x++ {
				mask.SetAlpha(i*cw+x, y, color.Alpha{A: 0xff})
			}
		}
	}
	a, err := atlas.NewFromMask(mask, cw, ch, 10, atlas.Palette{
		Foreground: ink,
		Highlight:  color.RGBA{0xee, 0xff, 0xee, 0xff},
		Background: background,
	})
	Expect(err).NotTo(HaveOccurred())
	return a
}
