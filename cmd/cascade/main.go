package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cascade/internal/config"
	"github.com/san-kum/cascade/internal/engine"
	"github.com/san-kum/cascade/internal/export"
	"github.com/san-kum/cascade/internal/gui"
	"github.com/san-kum/cascade/internal/metrics"
	"github.com/san-kum/cascade/internal/storage"
	"github.com/san-kum/cascade/internal/surface"
	"github.com/san-kum/cascade/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	fps        int
	seed       uint64
	static     bool
	theme      string
	fontSize   float64
	// headless runs
	frames int
	width  int
	height int
	noGIF  bool
	asJSON bool
)

const debugEnv = "CASCADE_DEBUG"

func main() {
	rootCmd := &cobra.Command{
		Use:          "cascade",
		Short:        "falling glyph columns",
		SilenceUsage: true,
		RunE:         runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cascade", "recording directory")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}
	addConfigFlags(tuiCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window",
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a headless run",
		RunE:  runRecord,
	}
	addConfigFlags(recordCmd)
	addHeadlessFlags(recordCmd)
	recordCmd.Flags().BoolVar(&noGIF, "no-gif", false, "store statistics only")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [id]",
		Short: "plot per-frame statistics of a recording or a fresh headless run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStats,
	}
	addConfigFlags(statsCmd)
	addHeadlessFlags(statsCmd)
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of plots")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.PresetDescriptions[name])
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	addConfigFlags(configCmd)

	rootCmd.AddCommand(tuiCmd, guiCmd, recordCmd, listCmd, statsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().BoolVar(&static, "static", false, "repeat one screen-tall buffer per column")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "theme: matrix, amber, ice, crimson, mono")
	cmd.Flags().Float64Var(&fontSize, "font-size", config.DefaultFontSize, "glyph size in points")
}

func addHeadlessFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to run")
	cmd.Flags().IntVar(&width, "width", 640, "surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "surface height in pixels")
}

// loadConfig applies the preset, then the config file, then any flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("static") {
		cfg.Engine.Regenerate = !static
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("font-size") {
		cfg.FontSize = fontSize
	}

	if !slices.Contains(viz.ThemeNames(), cfg.Theme) {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger sends diagnostics to cascade.log when CASCADE_DEBUG is set and
// discards them otherwise. The terminal owns stdout while a host runs.
func newLogger() (*log.Logger, func(), error) {
	if os.Getenv(debugEnv) == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := tea.LogToFile("cascade.log", "cascade")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return log.Default(), func() { f.Close() }, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return st, nil
}

func runPicker(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	return viz.RunPicker(func(name string) (viz.Model, error) {
		return viz.NewModel(viz.Options{
			Config: config.GetPreset(name),
			Preset: name,
			Store:  st,
			Logger: logger,
		})
	})
}

func hostOptions(cmd *cobra.Command) (viz.Options, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return viz.Options{}, nil, err
	}
	st, err := openStore()
	if err != nil {
		return viz.Options{}, nil, err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return viz.Options{}, nil, err
	}
	return viz.Options{Config: cfg, Preset: preset, Store: st, Logger: logger}, closeLog, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, closeLog, err := hostOptions(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	if err := viz.Run(opts); err != nil {
		return fmt.Errorf("terminal host: %w", err)
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	opts, closeLog, err := hostOptions(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	if err := gui.Run(opts); err != nil {
		return fmt.Errorf("window host: %w", err)
	}
	return nil
}

type headlessRun struct {
	layout engine.Layout
	stats  []engine.FrameStats
	set    *metrics.Set
}

// runHeadless drives an engine over an in-memory surface for n frames,
// handing every frame to capture when it is not nil.
func runHeadless(cfg *config.Config, w, h, n int, capture func(*surface.Image, engine.FrameStats)) (*headlessRun, error) {
	p, err := viz.GetTheme(cfg.Theme).Palette()
	if err != nil {
		return nil, err
	}
	a, err := cfg.Atlas(p)
	if err != nil {
		return nil, fmt.Errorf("failed to build atlas: %w", err)
	}

	fb := surface.New(w, h, a.Background())
	eng, err := engine.New(fb, viz.NewRand(cfg.Seed), cfg.Options())
	if err != nil {
		return nil, err
	}
	defer eng.Teardown()
	if err := eng.RetileWithFallback(w, h, a); err != nil {
		return nil, fmt.Errorf("failed to lay out %dx%d: %w", w, h, err)
	}

	run := &headlessRun{
		layout: eng.Layout(),
		stats:  make([]engine.FrameStats, 0, n),
		set:    metrics.Standard(),
	}
	for i := 0; i < n; i++ {
		eng.AdvanceFrame()
		fs := eng.LastFrame()
		run.stats = append(run.stats, fs)
		run.set.Observe(fs)
		if capture != nil {
			capture(fb, fs)
		}
	}
	return run, nil
}

func (r *headlessRun) recording(cfg *config.Config) storage.Recording {
	mode := "regenerate"
	if !r.layout.Regenerate {
		mode = "static"
	}
	return storage.Recording{
		Preset:       preset,
		Theme:        cfg.Theme,
		Timestamp:    time.Now(),
		Seed:         cfg.Seed,
		Width:        r.layout.Width,
		Height:       r.layout.Height,
		FPS:          cfg.FPS,
		Frames:       len(r.stats),
		Columns:      r.layout.Columns,
		BufferHeight: r.layout.BufferHeight,
		Mode:         mode,
		Metrics:      r.set.Summary(),
	}
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	var rec *export.Recorder
	var capture func(*surface.Image, engine.FrameStats)
	if !noGIF {
		p, err := viz.GetTheme(cfg.Theme).Palette()
		if err != nil {
			return err
		}
		rec = export.NewRecorder(p, cfg.FPS, 1, 0)
		capture = func(fb *surface.Image, fs engine.FrameStats) { rec.Capture(fb.RGBA(), fs) }
	}

	fmt.Printf("recording %d frames at %dx%d...\n", frames, width, height)
	start := time.Now()
	run, err := runHeadless(cfg, width, height, frames, capture)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var writeGIF func(io.Writer) error
	if rec != nil {
		writeGIF = rec.WriteGIF
	}
	id, err := st.Save(run.recording(cfg), run.stats, writeGIF)
	if err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("recording id: %s\n", id)
	fmt.Printf("columns: %d  buffer rows: %d\n", run.layout.Columns, run.layout.BufferHeight)
	printMetrics(run.set.Summary())
	return nil
}

func printMetrics(summary map[string]float64) {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, summary[name])
	}
}

func listRecordings(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTHEME\tTIME\tSIZE\tFRAMES\tCOLS\tMODE\tGIF")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%d\t%s\t%v\n",
			run.ID,
			run.Preset,
			run.Theme,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.Columns,
			run.Mode,
			run.HasGIF,
		)
	}

	return w.Flush()
}

func showStats(cmd *cobra.Command, args []string) error {
	var (
		rec   storage.Recording
		stats []engine.FrameStats
	)

	if len(args) == 1 {
		st := storage.New(dataDir)
		if asJSON {
			return st.ExportJSON(os.Stdout, args[0])
		}
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		stats, err = st.LoadStats(args[0])
		if err != nil {
			return err
		}
		rec = *meta
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		run, err := runHeadless(cfg, width, height, frames, nil)
		if err != nil {
			return err
		}
		rec, stats = run.recording(cfg), run.stats
		if asJSON {
			return storage.WriteJSON(os.Stdout, rec, stats)
		}
	}

	if len(stats) < 2 {
		return fmt.Errorf("no data to plot")
	}

	if rec.ID != "" {
		fmt.Printf("recording: %s\n", rec.ID)
	}
	fmt.Printf("size: %dx%d  columns: %d  buffer rows: %d  mode: %s\n",
		rec.Width, rec.Height, rec.Columns, rec.BufferHeight, rec.Mode)
	fmt.Printf("frames: %d\n\n", len(stats))

	series := []struct {
		caption string
		value   func(engine.FrameStats) float64
	}{
		{"mean speed (px/frame)", func(fs engine.FrameStats) float64 { return fs.MeanSpeed() }},
		{"rows blitted per frame", func(fs engine.FrameStats) float64 { return float64(fs.RowsBlitted) }},
		{"rows shifted per frame", func(fs engine.FrameStats) float64 { return float64(fs.RowsShifted) }},
		{"regenerations per frame", func(fs engine.FrameStats) float64 { return float64(fs.Regenerations) }},
	}
	for _, s := range series {
		data := make([]float64, len(stats))
		for i, fs := range stats {
			data[i] = s.value(fs)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	printMetrics(rec.Metrics)
	return nil
}
