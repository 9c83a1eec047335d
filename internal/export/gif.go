package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/engine"
	"golang.org/x/image/draw"
)

var ErrNoFrames = errors.New("export: no frames recorded")

// Palette ramps from the background to the glyph colour and on to the
// highlight colour in Lab space, so antialiased glyph edges survive the
// conversion to 256 colours.
func Palette(p atlas.Palette) color.Palette {
	bg := toColorful(p.Background)
	fg := toColorful(p.Foreground)
	hi := toColorful(p.Highlight)

	pal := make(color.Palette, 0, 256)
	const ramp = 192
	for i := 0; i < ramp; i++ {
		pal = append(pal, bg.BlendLab(fg, float64(i)/(ramp-1)).Clamped())
	}
	for i := 1; i <= 256-ramp; i++ {
		pal = append(pal, fg.BlendLab(hi, float64(i)/(256-ramp)).Clamped())
	}
	return pal
}

func toColorful(c color.Color) colorful.Color {
	if c == nil {
		return colorful.Color{}
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return colorful.Color{}
	}
	return cc
}

// Recorder keeps framebuffer captures and their frame statistics.
type Recorder struct {
	palette   color.Palette
	delay     int // hundredths of a second
	every     int
	maxFrames int

	seen   int
	frames []*image.Paletted
	stats  []engine.FrameStats
}

// NewRecorder captures at most maxFrames frames (0 for no limit) at fps,
// keeping one image in every `every` frames. Statistics are kept for every
// frame.
func NewRecorder(p atlas.Palette, fps, every, maxFrames int) *Recorder {
	every = max(every, 1)
	delay := 100 * every / max(fps, 1)
	return &Recorder{
		palette:   Palette(p),
		delay:     max(delay, 2),
		every:     every,
		maxFrames: maxFrames,
	}
}

func (r *Recorder) Capture(img *image.RGBA, fs engine.FrameStats) {
	r.stats = append(r.stats, fs)
	r.seen++
	if (r.seen-1)%r.every != 0 {
		return
	}
	if r.maxFrames > 0 && len(r.frames) >= r.maxFrames {
		return
	}
	pal := image.NewPaletted(img.Rect, r.palette)
	draw.Draw(pal, pal.Rect, img, img.Rect.Min, draw.Src)
	r.frames = append(r.frames, pal)
}

func (r *Recorder) Frames() int                { return len(r.frames) }
func (r *Recorder) Stats() []engine.FrameStats { return r.stats }

// Totals sums the recorded frame statistics.
func (r *Recorder) Totals() engine.FrameStats {
	var t engine.FrameStats
	for _, fs := range r.stats {
		t.Add(fs)
	}
	return t
}

func (r *Recorder) WriteGIF(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}
