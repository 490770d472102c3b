package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/blobsim/internal/dynamo"
)

type ExportSample struct {
	Tick         int     `json:"tick"`
	Time         float64 `json:"time"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Volume       float64 `json:"volume"`
	Wall         string  `json:"wall"`
	NewCollision bool    `json:"new_collision,omitempty"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
	Outline [][2]float64   `json:"outline"`
}

func NewExportData(meta RunMetadata, samples []dynamo.Sample, outline dynamo.State) ExportData {
	data := ExportData{
		Run:     meta,
		Samples: make([]ExportSample, len(samples)),
	}
	for i, s := range samples {
		data.Samples[i] = ExportSample{
			Tick:         s.Tick,
			Time:         s.Time,
			X:            s.Centroid.X,
			Y:            s.Centroid.Y,
			Volume:       s.Volume,
			Wall:         s.Wall,
			NewCollision: s.NewCollision,
		}
	}
	for _, p := range outline.Positions() {
		data.Outline = append(data.Outline, [2]float64{p.X, p.Y})
	}
	return data
}

// ExportJSON writes a stored run as one JSON document. A path of "-" writes to stdout.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	outline, err := s.LoadOutline(runID)
	if err != nil {
		return err
	}

	data := NewExportData(*meta, samples, outline)
	if path == "-" {
		return encodeJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeJSON(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func encodeJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
