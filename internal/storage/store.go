package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Config    *config.Config     `json:"config"`
	Steps     int                `json:"steps"`
	Duration  float64            `json:"duration"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run. The ID is left empty until Save
// assigns one.
func NewMetadata(name string, cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		Name:      name,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Config:    cfg,
		Steps:     result.StepsTaken,
		Duration:  result.Duration,
		Metrics:   result.Metrics,
	}
}

// Save writes the run into its own directory and returns the run ID.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	meta := NewMetadata(name, cfg, result)
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("save %s: %w", meta.ID, err)
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Times, result.Frames); err != nil {
		return "", fmt.Errorf("save %s: %w", meta.ID, err)
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, times []float64, frames []dynamo.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "version"}
	for i := 0; i < frames[0].Count(); i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, frame := range frames {
		row = row[:0]
		row = append(row,
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatUint(frame.Version, 10),
		)
		for _, v := range frame.Positions {
			row = append(row, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("load %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads back the sampled frames and their times.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", runID, err)
	}

	if len(records) < 2 {
		return []dynamo.Frame{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	frames := make([]dynamo.Frame, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) < 2 {
			return nil, nil, fmt.Errorf("load %s: row %d: %w", runID, i+1, dynamo.ErrNoData)
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: row %d: %w", runID, i+1, err)
		}
		version, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: row %d: %w", runID, i+1, err)
		}

		positions := make([]float32, 0, len(record)-2)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("load %s: row %d: %w", runID, i+1, err)
			}
			positions = append(positions, float32(v))
		}

		times = append(times, t)
		frames = append(frames, dynamo.Frame{Version: version, Positions: positions})
	}

	return frames, times, nil
}
