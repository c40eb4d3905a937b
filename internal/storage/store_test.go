package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orbsim/internal/orbit"
)

func testSystem(t *testing.T) *orbit.System {
	t.Helper()
	mk := func(name string, a, e, mass float64) *orbit.Body {
		el, err := orbit.NewElements(a, e, 0.1, 0.2, 0.3, 0.4, mass)
		if err != nil {
			t.Fatal(err)
		}
		b, err := orbit.NewBody(name, orbit.Planet, el, 100)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}
	earth := mk("Earth", 149598261, 0.0167, 5.97e24)
	if err := earth.AddMoon(mk("Moon", 384400, 0.0554, 7.342e22)); err != nil {
		t.Fatal(err)
	}
	sys := orbit.NewSystem()
	if err := sys.Add(earth); err != nil {
		t.Fatal(err)
	}
	if err := sys.InitializeAll(); err != nil {
		t.Fatal(err)
	}
	for _, b := range sys.Bodies() {
		step := b.Derived().Step
		for k := 1; k <= 10; k++ {
			if _, err := b.Propagate(float64(k) * step); err != nil {
				t.Fatal(err)
			}
		}
	}
	return sys
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sys := testSystem(t)
	result := &orbit.Result{Bodies: map[string]orbit.BodyResult{
		"Earth": {Samples: 11, Metrics: map[string]float64{"energy_drift": 1e-12}},
	}}

	runID, err := st.Save(RunInfo{Label: "test", DataFile: "bodies.toml", Orbits: 1, Workers: 2}, sys, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Label != "test" || meta.Workers != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(meta.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(meta.Bodies))
	}
	earth, ok := meta.Body("Earth")
	if !ok {
		t.Fatal("Earth missing from metadata")
	}
	if earth.Metrics["energy_drift"] != 1e-12 {
		t.Errorf("expected energy drift 1e-12, got %g", earth.Metrics["energy_drift"])
	}
	if earth.Samples != 11 {
		t.Errorf("expected 11 samples, got %d", earth.Samples)
	}
}

func TestTrackRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	sys := testSystem(t)

	runID, err := st.Save(RunInfo{}, sys, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, b := range sys.Bodies() {
		track, err := st.LoadTrack(runID, b.Path())
		if err != nil {
			t.Fatalf("load track %s: %v", b.Path(), err)
		}
		if track.Len() != b.Len() {
			t.Fatalf("%s: expected %d samples, got %d", b.Path(), b.Len(), track.Len())
		}
		for i := range b.Positions {
			if track.Positions[i] != b.Positions[i] || track.Velocities[i] != b.Velocities[i] || track.Times[i] != b.Times[i] {
				t.Fatalf("%s sample %d differs after round trip", b.Path(), i)
			}
		}
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{Label: "test"}, testSystem(t), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, rel := range []string{"metadata.json", "tracks/Earth.csv", "tracks/Earth/Moon.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, filepath.FromSlash(rel))); os.IsNotExist(err) {
			t.Errorf("%s not created", rel)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "tracks", "Earth.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "time,x,y,z,vx,vy,vz\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	sys := testSystem(t)
	first, err := st.Save(RunInfo{Label: "test"}, sys, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunInfo{Label: "test"}, sys, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatal("run ids must be unique")
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	runID, err := st.Save(RunInfo{}, testSystem(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadTrack(runID, "Mars"); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestLoadTrack_UnknownPath(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, err := st.Save(RunInfo{}, testSystem(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	// A CSV outside the tracks directory must stay unreachable.
	outside := filepath.Join(tmpDir, runID, "secret.csv")
	if err := os.WriteFile(outside, []byte("time,x,y,z,vx,vy,vz\n0,1,2,3,4,5,6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, body := range []string{"../secret", "../../" + runID + "/secret", "Earth/../../secret"} {
		if _, err := st.LoadTrack(runID, body); !errors.Is(err, ErrTrackNotFound) {
			t.Errorf("LoadTrack(%q): expected ErrTrackNotFound, got %v", body, err)
		}
	}
	if _, err := st.Load("../" + filepath.Base(tmpDir)); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load outside the store: expected ErrRunNotFound, got %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportCSV(&buf, runID, "../secret"); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("ExportCSV: expected ErrTrackNotFound, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("ExportCSV wrote %d bytes for a rejected path", buf.Len())
	}
}

func TestLoadTrack_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, err := st.Save(RunInfo{}, testSystem(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(tmpDir, runID, "tracks", "Earth.csv")
	if err := os.WriteFile(path, []byte("time,x,y,z,vx,vy,vz\n0,1,2,3,4,5,six\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadTrack(runID, "Earth"); !errors.Is(err, ErrBadTrack) {
		t.Errorf("expected ErrBadTrack, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Label: "test"}, testSystem(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.ID != runID || len(data.Tracks) != 2 {
		t.Fatalf("unexpected export: id %s, %d tracks", data.Run.ID, len(data.Tracks))
	}
	if data.Tracks[1].Body != "Earth/Moon" || data.Tracks[1].Steps != 11 {
		t.Errorf("unexpected moon track %s with %d steps", data.Tracks[1].Body, data.Tracks[1].Steps)
	}
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{}, testSystem(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportCSV(&buf, runID, "Earth/Moon"); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 12 {
		t.Errorf("expected header plus 11 rows, got %d lines", lines)
	}
}
