package viz

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cascade/internal/atlas"
	"github.com/san-kum/cascade/internal/config"
	"github.com/san-kum/cascade/internal/engine"
	"github.com/san-kum/cascade/internal/export"
	"github.com/san-kum/cascade/internal/metrics"
	"github.com/san-kum/cascade/internal/storage"
	"github.com/san-kum/cascade/internal/surface"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statusLines     = 1
	historyCapacity = 600

	// DotPixels is the framebuffer size of one braille dot.
	DotPixels = 3

	recordEvery     = 2
	recordMaxFrames = 600
)

var graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)

type TickMsg time.Time

type Options struct {
	Config *config.Config
	Preset string
	// Store receives recordings and snapshots. Nil disables both.
	Store  *storage.Store
	Logger *log.Logger
}

// Model is the terminal host: it owns the engine, its framebuffer and the
// braille canvas the framebuffer is shown through.
type Model struct {
	cfg    *config.Config
	preset string
	eng    *engine.Engine
	fb     *surface.Image
	canvas *Canvas
	atlas  *atlas.Atlas
	theme  int

	width, height int
	running       bool
	showHelp      bool
	showStats     bool

	set          *metrics.Set
	speedHistory []float64
	rowsHistory  []float64
	frames       int

	store   *storage.Store
	rec     *export.Recorder
	logger  *log.Logger
	message string
	err     error
}

// NewRand seeds a PCG source, or returns nil for a clock seed when seed is 0.
func NewRand(seed uint64) engine.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewModel builds the engine for opts and lays it out for an 80x24 terminal
// until the first window size message.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m := Model{
		cfg:     cfg,
		preset:  opts.Preset,
		theme:   ThemeIndex(cfg.Theme),
		running: true,
		set:     metrics.Standard(),
		store:   opts.Store,
		logger:  logger,
	}
	if err := m.loadAtlas(); err != nil {
		return Model{}, err
	}
	m.fb = surface.New(0, 0, m.atlas.Background())

	eng, err := engine.New(m.fb, NewRand(cfg.Seed), cfg.Options())
	if err != nil {
		return Model{}, err
	}
	eng.SetLogger(logger)
	m.eng = eng

	m.resize(defaultWidth, defaultHeight)
	if m.err != nil {
		return Model{}, m.err
	}
	return m, nil
}

func (m *Model) loadAtlas() error {
	p, err := Themes[m.theme].Palette()
	if err != nil {
		return err
	}
	a, err := m.cfg.Atlas(p)
	if err != nil {
		return err
	}
	m.atlas = a
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the engine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		switch msg.String() {
		case "q", "ctrl+c":
			if m.rec != nil {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.eng.Reflow()
			m.redraw()
		case "R":
			m.eng.FullReset()
			m.redraw()
		case "m":
			m.toggleMode()
		case "t":
			m.cycleTheme()
		case "s":
			m.showStats = !m.showStats
		case "g":
			m.toggleRecording()
		case "p":
			m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	if m.rec != nil {
		// frames of one animation share a size
		m.stopRecording()
	}
	m.width, m.height = max(w, 1), max(h, statusLines+1)
	rows := m.height - statusLines
	m.canvas = NewCanvas(m.width, rows)
	m.fb.Resize(m.width*2*DotPixels, rows*4*DotPixels)
	m.retile()
}

func (m *Model) retile() {
	m.fb.SetBackground(m.atlas.Background())
	m.err = m.eng.RetileWithFallback(m.fb.Width(), m.fb.Height(), m.atlas)
	if m.err != nil {
		m.logger.Printf("retile: %v", m.err)
	}
	m.redraw()
}

// step advances the engine by one frame.
func (m *Model) step() {
	m.eng.AdvanceFrame()
	fs := m.eng.LastFrame()
	m.set.Observe(fs)
	m.frames++

	m.speedHistory = appendCapped(m.speedHistory, fs.MeanSpeed())
	m.rowsHistory = appendCapped(m.rowsHistory, float64(fs.RowsBlitted))
	if m.rec != nil {
		m.rec.Capture(m.fb.RGBA(), fs)
	}
	m.redraw()
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

func (m *Model) redraw() {
	m.canvas.Downsample(m.fb.RGBA(), m.atlas.Background())
}

func (m *Model) toggleMode() {
	opts := m.eng.Options()
	opts.Regenerate = !opts.Regenerate
	if err := m.eng.Configure(opts); err != nil {
		m.err = err
		return
	}
	m.retile()
}

func (m *Model) cycleTheme() {
	if m.rec != nil {
		// recorded frames keep the palette they were started with
		m.stopRecording()
	}
	m.theme = (m.theme + 1) % len(Themes)
	if err := m.loadAtlas(); err != nil {
		m.err = err
		return
	}
	m.retile()
}

func (m *Model) toggleRecording() {
	if m.store == nil {
		m.message = "recording disabled"
		return
	}
	if m.rec != nil {
		m.stopRecording()
		return
	}
	p, err := Themes[m.theme].Palette()
	if err != nil {
		m.err = err
		return
	}
	m.rec = export.NewRecorder(p, m.cfg.FPS, recordEvery, recordMaxFrames)
}

func (m *Model) stopRecording() {
	rec := m.rec
	m.rec = nil
	if rec.Frames() == 0 {
		return
	}
	set := metrics.Standard()
	for _, fs := range rec.Stats() {
		set.Observe(fs)
	}
	l := m.eng.Layout()
	mode := "regenerate"
	if !l.Regenerate {
		mode = "static"
	}
	id, err := m.store.Save(storage.Recording{
		Preset:       m.preset,
		Theme:        Themes[m.theme].Name,
		Seed:         m.cfg.Seed,
		Width:        l.Width,
		Height:       l.Height,
		FPS:          m.cfg.FPS,
		Columns:      l.Columns,
		BufferHeight: l.BufferHeight,
		Mode:         mode,
		Metrics:      set.Summary(),
	}, rec.Stats(), rec.WriteGIF)
	if err != nil {
		m.logger.Printf("save recording: %v", err)
		m.message = "save failed: " + err.Error()
		return
	}
	m.logger.Printf("saved recording %s (%d frames)", id, rec.Frames())
	m.message = "saved " + id
}

func (m *Model) snapshot() {
	if m.store == nil {
		m.message = "snapshots disabled"
		return
	}
	name := fmt.Sprintf("frame-%d.svg", time.Now().UnixNano())
	path, err := m.store.SaveSnapshot(name, func(w io.Writer) error {
		return export.WriteSVG(w, m.canvas, 4, m.atlas.Background())
	})
	if err != nil {
		m.message = "snapshot failed: " + err.Error()
		return
	}
	m.message = "wrote " + path
}

// View renders the rain and the status line.
func (m Model) View() string {
	theme := Themes[m.theme]
	rows := m.height - statusLines

	var body string
	switch {
	case m.err != nil:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			StatusError.Render("error: "+m.err.Error()))
	case m.showHelp:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, GlassPanel.Render(helpText))
	case m.showStats:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, m.statsPanel())
	default:
		body = strings.TrimSuffix(m.canvas.Render(theme.Background), "\n")
	}
	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	theme := Themes[m.theme]
	l := m.eng.Layout()

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.rec != nil {
		status = StatusRecording.Render(fmt.Sprintf("REC %d", m.rec.Frames()))
	}
	mode := "regenerate"
	if !l.Regenerate {
		mode = "static"
	}
	name := m.preset
	if name == "" {
		name = "custom"
	}

	var s strings.Builder
	s.WriteString(status + " ")
	s.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(name) + " ")
	s.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render(theme.Name+" "+mode) + " ")
	s.WriteString(MetricLabel.Render("cols ") + MetricValue.Render(fmt.Sprint(l.Columns)) + " ")
	s.WriteString(MetricLabel.Render("speed ") + MetricValue.Render(fmt.Sprintf("%.1f", m.set.Summary()["mean_speed"])) + " ")
	s.WriteString(SparklineChart(m.rowsHistory, 12) + " ")
	if m.message != "" {
		s.WriteString(KeyHint.Render(m.message))
	} else {
		s.WriteString(KeyHint.Render("?:help"))
	}
	return s.String()
}

func (m Model) statsPanel() string {
	width := min(max(m.width-20, 10), 60)
	var s strings.Builder
	if len(m.speedHistory) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.speedHistory,
			asciigraph.Height(6), asciigraph.Width(width), asciigraph.Caption("mean speed (px/frame)"))) + "\n")
	}
	if len(m.rowsHistory) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.rowsHistory,
			asciigraph.Height(6), asciigraph.Width(width), asciigraph.Caption("rows blitted per frame"))) + "\n")
	}
	l := m.eng.Layout()
	t := m.eng.Totals()
	s.WriteString(fmt.Sprintf("%s %d  %s %d  %s %d\n",
		MetricLabel.Render("frames"), m.frames,
		MetricLabel.Render("buffer rows"), l.BufferHeight,
		MetricLabel.Render("regenerations"), t.Regenerations))
	for _, mt := range m.set.Metrics() {
		s.WriteString(fmt.Sprintf("%s %s\n", MetricLabel.Render(fmt.Sprintf("%-16s", mt.Name())), MetricValue.Render(fmt.Sprintf("%.3f", mt.Value()))))
	}
	return GlassPanel.Render(s.String())
}

const helpText = `KEYBOARD SHORTCUTS

Space    Pause/Resume
r        Redraw from the column buffers
R        Full reset (new speeds and strings)
m        Toggle regenerate/static mode
t        Cycle themes
s        Toggle statistics
g        Toggle recording
p        Save an SVG snapshot
?        Toggle this help
q        Quit`

// Run starts the terminal host on the alternate screen.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
