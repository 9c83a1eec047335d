package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/cascade/internal/engine"
)

type ExportData struct {
	Recording Recording     `json:"recording"`
	Stats     []FrameRecord `json:"stats"`
}

type FrameRecord struct {
	Frame         int     `json:"frame"`
	Columns       int     `json:"columns"`
	RowsShifted   int     `json:"rows_shifted"`
	RowsBlitted   int     `json:"rows_blitted"`
	Exhaustions   int     `json:"exhaustions"`
	Regenerations int     `json:"regenerations"`
	MeanSpeed     float64 `json:"mean_speed"`
}

// ExportJSON writes a recording and its statistics as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	rec, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}
	return WriteJSON(w, *rec, stats)
}

func WriteJSON(w io.Writer, rec Recording, stats []engine.FrameStats) error {
	data := ExportData{
		Recording: rec,
		Stats:     make([]FrameRecord, len(stats)),
	}
	for i, fs := range stats {
		data.Stats[i] = FrameRecord{
			Frame:         i,
			Columns:       fs.ColumnFrames,
			RowsShifted:   fs.RowsShifted,
			RowsBlitted:   fs.RowsBlitted,
			Exhaustions:   fs.Exhaustions,
			Regenerations: fs.Regenerations,
			MeanSpeed:     fs.MeanSpeed(),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
