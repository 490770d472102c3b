package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
)

var (
	ErrNoRun      = errors.New("storage: run not found")
	ErrBadRecord  = errors.New("storage: malformed record")
	samplesHeader = []string{"tick", "time", "cx", "cy", "volume", "wall", "new_collision", "dragging"}
	outlineHeader = []string{"node", "x", "y", "vx", "vy"}
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
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Timestamp      time.Time               `json:"timestamp"`
	Seed           int64                   `json:"seed"`
	Dt             float64                 `json:"dt"`
	AnimationSpeed float64                 `json:"animation_speed"`
	Ticks          int                     `json:"ticks"`
	NodeCount      int                     `json:"node_count"`
	Width          float64                 `json:"width"`
	Height         float64                 `json:"height"`
	Collisions     []dynamo.CollisionEvent `json:"collisions"`
	Metrics        map[string]float64      `json:"metrics"`
}

// Save writes a run directory holding metadata.json, samples.csv and
// outline.csv (the final ring). meta.ID, Timestamp, Ticks, Collisions and
// Metrics are filled in from result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	meta.Ticks = result.TicksTaken
	meta.Collisions = result.Collisions
	meta.Metrics = finiteMetrics(result.Metrics)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), append(data, '\n'), 0644); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "samples.csv"), func(w io.Writer) error {
		return WriteSamplesCSV(w, result.Samples)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "outline.csv"), func(w io.Writer) error {
		return WriteOutlineCSV(w, result.Final)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// finiteMetrics drops NaN and infinite values, which JSON cannot carry.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	records, err := s.readCSV(runID, "samples.csv")
	if err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(samplesHeader) {
			return nil, fmt.Errorf("%w: samples.csv line %d", ErrBadRecord, i+2)
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: samples.csv line %d: %v", ErrBadRecord, i+2, err)
		}
		f, err := parseFloats(rec[1:5])
		if err != nil {
			return nil, fmt.Errorf("%w: samples.csv line %d: %v", ErrBadRecord, i+2, err)
		}
		samples = append(samples, dynamo.Sample{
			Tick:         tick,
			Time:         f[0],
			Centroid:     r2.Point{X: f[1], Y: f[2]},
			Volume:       f[3],
			Wall:         rec[5],
			NewCollision: rec[6] == "1",
			Dragging:     rec[7] == "1",
		})
	}
	return samples, nil
}

// LoadOutline returns the final ring as a flat state.
func (s *Store) LoadOutline(runID string) (dynamo.State, error) {
	records, err := s.readCSV(runID, "outline.csv")
	if err != nil {
		return nil, err
	}

	state := make(dynamo.State, 0, len(records)*4)
	for i, rec := range records {
		if len(rec) != len(outlineHeader) {
			return nil, fmt.Errorf("%w: outline.csv line %d", ErrBadRecord, i+2)
		}
		f, err := parseFloats(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: outline.csv line %d: %v", ErrBadRecord, i+2, err)
		}
		state = append(state, f...)
	}
	return state, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
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
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func WriteSamplesCSV(out io.Writer, samples []dynamo.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(samplesHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Tick),
			formatFloat(s.Time),
			formatFloat(s.Centroid.X),
			formatFloat(s.Centroid.Y),
			formatFloat(s.Volume),
			s.Wall,
			formatBool(s.NewCollision),
			formatBool(s.Dragging),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteOutlineCSV(out io.Writer, state dynamo.State) error {
	w := csv.NewWriter(out)
	if err := w.Write(outlineHeader); err != nil {
		return err
	}
	pos := state.Positions()
	vel := state.Velocities()
	for i := range pos {
		row := []string{
			strconv.Itoa(i),
			formatFloat(pos[i].X),
			formatFloat(pos[i].Y),
			formatFloat(vel[i].X),
			formatFloat(vel[i].Y),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
