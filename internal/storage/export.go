package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/partsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Frames   int         `json:"frames"`
	Times    []float64   `json:"times"`
	Versions []uint64    `json:"versions"`
	States   [][]float32 `json:"positions"`
}

// ExportJSON writes a run, metadata plus every sampled frame, as one
// indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, times []float64, frames []dynamo.Frame) error {
	data := ExportData{
		RunMetadata: meta,
		Frames:      len(frames),
		Times:       times,
		Versions:    make([]uint64, len(frames)),
		States:      make([][]float32, len(frames)),
	}

	for i, f := range frames {
		data.Versions[i] = f.Version
		data.States[i] = f.Positions
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRun loads a stored run and writes it with ExportJSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, times, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, times, frames)
}
