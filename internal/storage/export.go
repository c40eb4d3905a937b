package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Tracks []ExportTrack `json:"tracks"`
}

type ExportTrack struct {
	Body       string       `json:"body"`
	Steps      int          `json:"steps"`
	Times      []float64    `json:"times"`
	Positions  [][3]float64 `json:"positions_km"`
	Velocities [][3]float64 `json:"velocities_km_s"`
}

func (s *Store) exportData(runID string) (*ExportData, error) {
	meta, tracks, err := s.LoadTracks(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{Run: *meta, Tracks: make([]ExportTrack, len(tracks))}
	for i, t := range tracks {
		et := ExportTrack{
			Body:       t.Body,
			Steps:      t.Len(),
			Times:      t.Times,
			Positions:  make([][3]float64, len(t.Positions)),
			Velocities: make([][3]float64, len(t.Velocities)),
		}
		for j, p := range t.Positions {
			et.Positions[j] = p
		}
		for j, v := range t.Velocities {
			et.Velocities[j] = v
		}
		data.Tracks[i] = et
	}
	return data, nil
}

// ExportJSON writes a run with all its tracks as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.exportData(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

// ExportCSV copies one body's track to w.
func (s *Store) ExportCSV(w io.Writer, runID, body string) error {
	t, err := s.LoadTrack(runID, body)
	if err != nil {
		return err
	}
	return encodeTrack(w, t)
}
