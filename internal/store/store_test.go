package store

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/runner"
)

func testResult() *runner.Result {
	return &runner.Result{
		Times: []float64{0.0, 0.5},
		Snapshots: [][][]float64{
			{{1.0, 2.0, 3.0}},
			{{1.1, 1.9, 3.0}},
		},
		Metrics: map[string]float64{
			"conservation_drift": 1e-12,
		},
		StepsTaken: 10,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Name: "test", Dim: 1, Points: []int{3},
		Dx: 0.5, Dt: 0.05, Boundary: "periodic",
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
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

	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if meta.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", meta.Steps)
	}
	if meta.Metrics["conservation_drift"] != 1e-12 {
		t.Errorf("expected drift 1e-12, got %v", meta.Metrics["conservation_drift"])
	}

	times, snapshots, err := st.LoadMoments(runID)
	if err != nil {
		t.Fatalf("load moments failed: %v", err)
	}

	if len(times) != 2 || len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d times, %d snapshots", len(times), len(snapshots))
	}
	if len(snapshots[0]) != 1 || len(snapshots[0][0]) != 3 {
		t.Fatalf("snapshot shape wrong: %d moments, %d sites", len(snapshots[0]), len(snapshots[0][0]))
	}
	if math.Abs(snapshots[1][0][1]-1.9) > 1e-12 {
		t.Errorf("expected 1.9, got %v", snapshots[1][0][1])
	}
	if times[1] != 0.5 {
		t.Errorf("expected time 0.5, got %v", times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testConfig(), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "moments.csv")); os.IsNotExist(err) {
		t.Error("moments.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, testConfig(), testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if exported.Name != "test" || exported.Steps != 10 {
		t.Errorf("exported header wrong: %+v", exported)
	}
	if len(exported.Snapshots) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(exported.Snapshots))
	}
}
