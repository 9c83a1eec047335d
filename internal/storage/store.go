package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cascade/internal/engine"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	gifFile      = "frames.gif"
	snapshotDir  = "snapshots"
)

var ErrNotFound = errors.New("storage: recording not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type Recording struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset"`
	Theme        string             `json:"theme"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         uint64             `json:"seed"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	FPS          int                `json:"fps"`
	Frames       int                `json:"frames"`
	Columns      int                `json:"columns"`
	BufferHeight int                `json:"buffer_height"`
	Mode         string             `json:"mode"`
	HasGIF       bool               `json:"has_gif"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes a new recording directory: metadata, per-frame statistics
// and, when writeGIF is not nil, the animation. It returns the new ID.
func (s *Store) Save(rec Recording, stats []engine.FrameStats, writeGIF func(io.Writer) error) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	name := rec.Preset
	if name == "" {
		name = "run"
	}
	runID, runDir, err := s.newRunDir(name, rec.Timestamp)
	if err != nil {
		return "", err
	}
	rec.ID = runID
	rec.Frames = len(stats)
	rec.HasGIF = writeGIF != nil

	if writeGIF != nil {
		if err := writeFile(filepath.Join(runDir, gifFile), writeGIF); err != nil {
			return "", fmt.Errorf("storage: write gif: %w", err)
		}
	}
	if err := writeFile(filepath.Join(runDir, statsFile), func(w io.Writer) error {
		return writeStats(w, stats)
	}); err != nil {
		return "", fmt.Errorf("storage: write stats: %w", err)
	}
	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}); err != nil {
		return "", fmt.Errorf("storage: write metadata: %w", err)
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, ts.Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s-%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var statsHeader = []string{
	"frame", "columns", "rows_shifted", "rows_blitted",
	"exhaustions", "regenerations", "speed_sum", "mean_speed",
}

func writeStats(out io.Writer, stats []engine.FrameStats) error {
	w := csv.NewWriter(out)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for i, fs := range stats {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(fs.ColumnFrames),
			strconv.Itoa(fs.RowsShifted),
			strconv.Itoa(fs.RowsBlitted),
			strconv.Itoa(fs.Exhaustions),
			strconv.Itoa(fs.Regenerations),
			strconv.Itoa(fs.SpeedSum),
			strconv.FormatFloat(fs.MeanSpeed(), 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable recording, newest first.
func (s *Store) List() ([]Recording, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Recording{}, nil
		}
		return nil, err
	}

	runs := make([]Recording, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *rec)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*Recording, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadStats reads the per-frame statistics of a recording.
func (s *Store) LoadStats(runID string) ([]engine.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.FrameStats{}, nil
	}

	stats := make([]engine.FrameStats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 7 {
			continue
		}
		var v [6]int
		bad := false
		for j := range v {
			n, err := strconv.Atoi(record[j+1])
			if err != nil {
				bad = true
				break
			}
			v[j] = n
		}
		if bad {
			continue
		}
		stats = append(stats, engine.FrameStats{
			Frames:        1,
			ColumnFrames:  v[0],
			RowsShifted:   v[1],
			RowsBlitted:   v[2],
			Exhaustions:   v[3],
			Regenerations: v[4],
			SpeedSum:      v[5],
		})
	}
	return stats, nil
}

// GIFPath is the animation of a recording, if it has one.
func (s *Store) GIFPath(runID string) string {
	return filepath.Join(s.baseDir, runID, gifFile)
}

// SaveSnapshot writes a single file under the snapshots directory and
// returns its path.
func (s *Store) SaveSnapshot(name string, write func(io.Writer) error) (string, error) {
	dir := filepath.Join(s.baseDir, snapshotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := writeFile(path, write); err != nil {
		return "", err
	}
	return path, nil
}
