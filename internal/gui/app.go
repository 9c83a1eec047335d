// Package gui hosts the engine in a resizable raylib window. The engine
// draws into an in-memory framebuffer which is uploaded as a texture once per
// frame.
package gui

import (
	"io"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/config"
	"github.com/san-kum/cascade/internal/engine"
	"github.com/san-kum/cascade/internal/metrics"
	"github.com/san-kum/cascade/internal/surface"
	"github.com/san-kum/cascade/internal/viz"
)

const (
	initialWidth  = 1280
	initialHeight = 720
	maxTelemetry  = 200
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 200)
)

type Action int

const (
	ActNone Action = iota
	ActQuit
	ActPause
	ActReflow
	ActFullReset
	ActToggleMode
	ActCycleTheme
	ActToggleHelp
	ActToggleHUD
)

type App struct {
	cfg    *config.Config
	preset string
	eng    *engine.Engine
	fb     *surface.Image
	atlas  *atlas.Atlas
	theme  int

	tex        rl.Texture2D
	texW, texH int

	running  bool
	showHelp bool
	showHUD  bool
	quit     bool

	set       *metrics.Set
	Telemetry []float64 // rows blitted per frame
	logger    *log.Logger
	err       error
}

// NewApp builds the engine without touching the window; the first layout
// happens in Run once the window exists.
func NewApp(opts viz.Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	a := &App{
		cfg:     cfg,
		preset:  opts.Preset,
		theme:   viz.ThemeIndex(cfg.Theme),
		running: true,
		showHUD: true,
		set:     metrics.Standard(),
		logger:  logger,
	}
	if err := a.loadAtlas(); err != nil {
		return nil, err
	}
	a.fb = surface.New(0, 0, a.atlas.Background())
	eng, err := engine.New(a.fb, viz.NewRand(cfg.Seed), cfg.Options())
	if err != nil {
		return nil, err
	}
	eng.SetLogger(logger)
	a.eng = eng
	return a, nil
}

func (a *App) loadAtlas() error {
	p, err := viz.Themes[a.theme].Palette()
	if err != nil {
		return err
	}
	at, err := a.cfg.Atlas(p)
	if err != nil {
		return err
	}
	a.atlas = at
	return nil
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(initialWidth, initialHeight, "cascade")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(opts viz.Options) error {
	a, err := NewApp(opts)
	if err != nil {
		return err
	}
	initWindow(a.cfg.FPS)
	defer rl.CloseWindow()

	a.resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	if a.err != nil {
		return a.err
	}
	a.RunLoop()
	a.unloadTexture()
	return a.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}
	a.apply(readKeys())
	if a.running && a.err == nil {
		a.step()
	}
}

func readKeys() Action {
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return ActQuit
	case rl.IsKeyPressed(rl.KeySpace):
		return ActPause
	case rl.IsKeyPressed(rl.KeyR) && shift:
		return ActFullReset
	case rl.IsKeyPressed(rl.KeyR):
		return ActReflow
	case rl.IsKeyPressed(rl.KeyM):
		return ActToggleMode
	case rl.IsKeyPressed(rl.KeyT):
		return ActCycleTheme
	case rl.IsKeyPressed(rl.KeySlash) && shift, rl.IsKeyPressed(rl.KeyF1):
		return ActToggleHelp
	case rl.IsKeyPressed(rl.KeyH):
		return ActToggleHUD
	}
	return ActNone
}

func (a *App) apply(act Action) {
	switch act {
	case ActQuit:
		a.quit = true
	case ActPause:
		a.running = !a.running
	case ActReflow:
		a.eng.Reflow()
	case ActFullReset:
		a.eng.FullReset()
	case ActToggleMode:
		opts := a.eng.Options()
		opts.Regenerate = !opts.Regenerate
		if err := a.eng.Configure(opts); err != nil {
			a.err = err
			return
		}
		a.retile()
	case ActCycleTheme:
		a.theme = (a.theme + 1) % len(viz.Themes)
		if err := a.loadAtlas(); err != nil {
			a.err = err
			return
		}
		a.retile()
	case ActToggleHelp:
		a.showHelp = !a.showHelp
	case ActToggleHUD:
		a.showHUD = !a.showHUD
	}
}

func (a *App) resize(w, h int) {
	a.fb.Resize(w, h)
	a.retile()
}

func (a *App) retile() {
	a.fb.SetBackground(a.atlas.Background())
	a.err = a.eng.RetileWithFallback(a.fb.Width(), a.fb.Height(), a.atlas)
	if a.err != nil {
		a.logger.Printf("retile: %v", a.err)
	}
}

func (a *App) step() {
	a.eng.AdvanceFrame()
	fs := a.eng.LastFrame()
	a.set.Observe(fs)
	a.Telemetry = append(a.Telemetry, float64(fs.RowsBlitted))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[len(a.Telemetry)-maxTelemetry:]
	}
}
