package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/cascade/internal/config"
	"github.com/san-kum/cascade/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	m, err := NewModel(Options{Config: cfg, Preset: "classic", Store: store})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNewModelLayout(t *testing.T) {
	m := newTestModel(t, nil)
	if m.fb.Width() != 80*2*DotPixels || m.fb.Height() != 23*4*DotPixels {
		t.Errorf("unexpected framebuffer %dx%d", m.fb.Width(), m.fb.Height())
	}
	if m.eng.NumColumns() == 0 {
		t.Error("expected columns after the initial layout")
	}
	if m.canvas.Width != 80 || m.canvas.Height != 23 {
		t.Errorf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestNewModelInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 0
	if _, err := NewModel(Options{Config: cfg}); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestWindowSizeRetiles(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.eng.Layout()
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 60})

	l := m.eng.Layout()
	if l.Width != 40*2*DotPixels || l.Height != 59*4*DotPixels {
		t.Errorf("expected layout for the new window, got %+v", l)
	}
	if l == before {
		t.Error("expected the layout to change")
	}
}

func TestTickAdvances(t *testing.T) {
	m := newTestModel(t, nil)
	for i := 0; i < 50; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	if m.frames != 50 || m.eng.Totals().Frames != 50 {
		t.Errorf("expected 50 frames, got %d", m.frames)
	}
	if len(m.speedHistory) != 50 {
		t.Errorf("expected 50 history samples, got %d", len(m.speedHistory))
	}

	lit := false
	for y := range m.canvas.Grid {
		for _, r := range m.canvas.Grid[y] {
			if r != brailleBase {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("expected glyphs on the canvas after 50 frames")
	}

	m = update(t, m, key(" "))
	m = update(t, m, TickMsg(time.Now()))
	if m.frames != 50 {
		t.Error("expected no frames while paused")
	}
}

func TestKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m = update(t, m, key("t"))
	if Themes[m.theme].Name != "amber" {
		t.Errorf("expected amber after one cycle, got %s", Themes[m.theme].Name)
	}

	m = update(t, m, key("m"))
	if m.eng.Layout().Regenerate {
		t.Error("expected static mode after m")
	}
	if m.eng.Layout().BufferHeight < m.fb.Height()-m.atlas.CellHeight() {
		t.Errorf("expected a screen-tall buffer, got %d", m.eng.Layout().BufferHeight)
	}

	m = update(t, m, key("?"))
	if !m.showHelp || !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected the help overlay")
	}
	m = update(t, m, key("s"))
	if !m.showStats {
		t.Error("expected stats panel")
	}

	gen := m.eng.Column(0).Generation()
	m = update(t, m, key("R"))
	if m.eng.Column(0).Generation() != gen+1 {
		t.Error("expected R to regenerate")
	}
	m = update(t, m, key("r"))
	if m.eng.Column(0).ReadPtr() != m.eng.Layout().BufferHeight {
		t.Error("expected r to restart the column")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestRecordingDisabledWithoutStore(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, key("g"))
	if m.rec != nil || m.message == "" {
		t.Error("expected recording to be refused")
	}
}

func TestRecordingSaves(t *testing.T) {
	store := storage.New(t.TempDir())
	m := newTestModel(t, store)
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})

	m = update(t, m, key("g"))
	if m.rec == nil {
		t.Fatal("expected recording to start")
	}
	for i := 0; i < 10; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	m = update(t, m, key("g"))
	if m.rec != nil {
		t.Fatal("expected recording to stop")
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recording, got %d", len(runs))
	}
	r := runs[0]
	if r.Frames != 10 || r.Preset != "classic" || r.Theme != "matrix" || !r.HasGIF {
		t.Errorf("unexpected recording %+v", r)
	}
	if _, err := os.Stat(store.GIFPath(r.ID)); err != nil {
		t.Errorf("expected gif: %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	store := storage.New(t.TempDir())
	m := newTestModel(t, store)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, key("p"))

	matches, _ := filepath.Glob(filepath.Join(store.Dir(), "snapshots", "*.svg"))
	if len(matches) != 1 {
		t.Fatalf("expected one snapshot, got %v (%s)", matches, m.message)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, TickMsg(time.Now()))
	v := m.View()
	if lines := strings.Count(v, "\n"); lines != 23 {
		t.Errorf("expected 23 canvas lines before the status line, got %d", lines)
	}
	if !strings.Contains(v, "RUNNING") || !strings.Contains(v, "classic") {
		t.Error("expected status line")
	}
}

func TestPicker(t *testing.T) {
	var chosen string
	p := NewPicker(func(preset string) (Model, error) {
		chosen = preset
		cfg := config.GetPreset(preset)
		return NewModel(Options{Config: cfg, Preset: preset})
	})

	p, _ = p.Update(tea.WindowSizeMsg{Width: 30, Height: 12})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(p.View(), "dense") {
		t.Error("expected presets in the menu")
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if chosen != "dense" {
		t.Errorf("expected dense, got %q", chosen)
	}
	if cmd == nil {
		t.Error("expected the live model to start ticking")
	}

	live := p.(picker).live
	if live.width != 30 || live.height != 12 {
		t.Errorf("expected the live model sized to the window, got %dx%d", live.width, live.height)
	}
}
