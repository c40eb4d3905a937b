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
	"strings"
	"time"

	"github.com/san-kum/orbsim/internal/orbit"
)

var (
	ErrRunNotFound   = errors.New("storage: run not found")
	ErrTrackNotFound = errors.New("storage: track not found")
	ErrBadTrack      = errors.New("storage: malformed track")
)

var trackHeader = []string{"time", "x", "y", "z", "vx", "vy", "vz"}

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
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Timestamp time.Time  `json:"timestamp"`
	DataFile  string     `json:"data_file"`
	Orbits    int        `json:"orbits"`
	Workers   int        `json:"workers"`
	Bodies    []BodyMeta `json:"bodies"`
}

type BodyMeta struct {
	Path        string             `json:"path"`
	Kind        string             `json:"kind"`
	Radius      float64            `json:"radius_km"`
	Mu          float64            `json:"mu"`
	Periapsis   float64            `json:"periapsis_km"`
	Apoapsis    float64            `json:"apoapsis_km"`
	Period      float64            `json:"period_s"`
	Step        float64            `json:"step_s"`
	EpochOffset float64            `json:"epoch_offset_s"`
	Samples     int                `json:"samples"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// Body returns the metadata for a body path.
func (m *RunMetadata) Body(path string) (BodyMeta, bool) {
	for _, b := range m.Bodies {
		if b.Path == path {
			return b, true
		}
	}
	return BodyMeta{}, false
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Label    string
	DataFile string
	Orbits   int
	Workers  int
}

// Save writes the metadata and one track per body of sys. result may be nil.
func (s *Store) Save(info RunInfo, sys *orbit.System, result *orbit.Result) (string, error) {
	label := info.Label
	if label == "" {
		label = "orbits"
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(label, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: now,
		DataFile:  info.DataFile,
		Orbits:    info.Orbits,
		Workers:   info.Workers,
	}

	for _, b := range sys.Bodies() {
		d := b.Derived()
		bm := BodyMeta{
			Path:        b.Path(),
			Kind:        b.Kind().String(),
			Radius:      b.Radius(),
			Mu:          d.Mu,
			Periapsis:   d.Periapsis,
			Apoapsis:    d.Apoapsis,
			Period:      d.Period,
			Step:        d.Step,
			EpochOffset: b.EpochOffset(),
			Samples:     b.Len(),
		}
		if result != nil {
			bm.Metrics = result.Bodies[b.Path()].Metrics
		}
		meta.Bodies = append(meta.Bodies, bm)

		if err := writeTrack(filepath.Join(runDir, trackFile(b.Path())), TrackFromBody(b)); err != nil {
			return "", fmt.Errorf("storage: write track %s: %w", b.Path(), err)
		}
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(label string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", label, now.Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// trackFile maps a body path like "Earth/Moon" to tracks/Earth/Moon.csv.
func trackFile(path string) string {
	return filepath.Join("tracks", filepath.FromSlash(path)+".csv")
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Track is the stored trajectory of one body.
type Track struct {
	Body       string
	Times      []float64
	Positions  []orbit.Vec3
	Velocities []orbit.Vec3
}

func TrackFromBody(b *orbit.Body) *Track {
	return &Track{
		Body:       b.Path(),
		Times:      b.Times,
		Positions:  b.Positions,
		Velocities: b.Velocities,
	}
}

func (t *Track) Len() int { return len(t.Times) }

// Radii returns |r| for every sample.
func (t *Track) Radii() []float64 {
	out := make([]float64, len(t.Positions))
	for i, p := range t.Positions {
		out[i] = p.Norm()
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeTrack(path string, t *Track) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeTrack(f, t)
}

func encodeTrack(out io.Writer, t *Track) error {
	w := csv.NewWriter(out)
	if err := w.Write(trackHeader); err != nil {
		return err
	}
	for i := range t.Times {
		p, v := t.Positions[i], t.Velocities[i]
		row := []string{
			formatFloat(t.Times[i]),
			formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]),
			formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadTrack reads the track of one body, addressed by path. Only bodies
// recorded in the run's metadata can be read.
func (s *Store) LoadTrack(runID, body string) (*Track, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	if _, ok := meta.Body(body); !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrTrackNotFound, body, runID)
	}
	return s.loadTrack(runID, body)
}

func (s *Store) loadTrack(runID, body string) (*Track, error) {
	csvPath := filepath.Join(s.baseDir, runID, trackFile(body))
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s in %s", ErrTrackNotFound, body, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(trackHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadTrack, body, err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != strings.Join(trackHeader, ",") {
		return nil, fmt.Errorf("%w: %s: unexpected header", ErrBadTrack, body)
	}

	t := &Track{
		Body:       body,
		Times:      make([]float64, 0, len(records)-1),
		Positions:  make([]orbit.Vec3, 0, len(records)-1),
		Velocities: make([]orbit.Vec3, 0, len(records)-1),
	}
	for i := 1; i < len(records); i++ {
		var vals [7]float64
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %v", ErrBadTrack, body, i+1, err)
			}
			vals[j] = v
		}
		t.Times = append(t.Times, vals[0])
		t.Positions = append(t.Positions, orbit.Vec3{vals[1], vals[2], vals[3]})
		t.Velocities = append(t.Velocities, orbit.Vec3{vals[4], vals[5], vals[6]})
	}
	return t, nil
}

// LoadTracks reads every track of a run in metadata order.
func (s *Store) LoadTracks(runID string) (*RunMetadata, []*Track, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tracks := make([]*Track, 0, len(meta.Bodies))
	for _, b := range meta.Bodies {
		t, err := s.loadTrack(runID, b.Path)
		if err != nil {
			return nil, nil, err
		}
		tracks = append(tracks, t)
	}
	return meta, tracks, nil
}
