package gui

import (
	"fmt"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/cascade/internal/viz"
)

// uploadFrame copies the framebuffer into the window texture, recreating the
// texture when the framebuffer size changed.
func (a *App) uploadFrame() {
	img := a.fb.RGBA()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if w != a.texW || h != a.texH {
		a.unloadTexture()
		im := rl.NewImageFromImage(img)
		a.tex = rl.LoadTextureFromImage(im)
		rl.UnloadImage(im)
		a.texW, a.texH = w, h
		return
	}
	// image.RGBA rows are packed, so Pix is exactly w*h RGBA quads
	pixels := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), w*h)
	rl.UpdateTexture(a.tex, pixels)
}

func (a *App) unloadTexture() {
	if a.texW > 0 {
		rl.UnloadTexture(a.tex)
		a.texW, a.texH = 0, 0
	}
}

func (a *App) Draw() {
	a.uploadFrame()

	rl.BeginDrawing()
	bg := color.RGBAModel.Convert(a.atlas.Background()).(color.RGBA)
	rl.ClearBackground(bg)
	if a.texW > 0 {
		rl.DrawTexture(a.tex, 0, 0, rl.White)
	}

	if a.err != nil {
		a.drawText("error: "+a.err.Error(), 30, 30, 20, rl.Red)
	}
	if a.showHUD {
		a.DrawHUD()
	}
	if a.showHelp {
		a.drawHelp()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	theme := viz.Themes[a.theme]
	l := a.eng.Layout()
	sh := rl.GetScreenHeight()

	a.drawText("cascade", 30, 30, 24, ColSelect)
	name := a.preset
	if name == "" {
		name = "custom"
	}
	mode := "regenerate"
	if !l.Regenerate {
		mode = "static"
	}
	a.drawText(fmt.Sprintf(":: %s  %s  %s", name, theme.Name, mode), 150, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, rl.GetScreenWidth()-130, 30, 16, col)

	sum := a.set.Summary()
	a.drawText(fmt.Sprintf("%d cols  buffer %d rows  speed %.1f  copy %.0f%%",
		l.Columns, l.BufferHeight, sum["mean_speed"], 100*sum["copy_ratio"]), 30, sh-70, 14, ColText)
	a.DrawTelemetry()
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, sh-40, 14, ColTextDim)
	a.drawText("[SPACE] PAUSE  [R] REFLOW  [SHIFT+R] RESET  [M] MODE  [T] THEME  [?] HELP  [Q] QUIT",
		160, sh-40, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, rl.GetScreenHeight()-140
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	accent := color.RGBAModel.Convert(a.atlas.Background()).(color.RGBA)
	if p, err := viz.Themes[a.theme].Palette(); err == nil {
		accent = color.RGBAModel.Convert(p.Foreground).(color.RGBA)
	}
	rl.DrawLineStrip(points, accent)
	a.drawText(fmt.Sprintf("rows/frame %.0f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

var helpLines = []string{
	"KEYBOARD SHORTCUTS",
	"",
	"Space      Pause/Resume",
	"R          Redraw from the column buffers",
	"Shift+R    Full reset",
	"M          Toggle regenerate/static mode",
	"T          Cycle themes",
	"H          Toggle HUD",
	"?          Toggle this help",
	"Q          Quit",
}

func (a *App) drawHelp() {
	w, h := 460, 30+len(helpLines)*24
	x := (rl.GetScreenWidth() - w) / 2
	y := (rl.GetScreenHeight() - h) / 2
	rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), ColPanel)
	rl.DrawRectangleLines(int32(x), int32(y), int32(w), int32(h), ColTextDim)
	for i, line := range helpLines {
		col := ColText
		if i == 0 {
			col = ColSelect
		}
		a.drawText(line, x+20, y+15+i*24, 18, col)
	}
}

func (a *App) drawText(text string, x, y int, size int, col rl.Color) {
	rl.DrawTextEx(rl.GetFontDefault(), text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
