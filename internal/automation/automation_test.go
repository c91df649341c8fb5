package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lbmkit/lbmkit/internal/store"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `name: smoke
description: short runs of two schemes
runs:
  - preset: burgers
    steps: 10
    save_as: burgers-short
  - preset: advection
    steps: 10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Runs) != 2 {
		t.Errorf("scenario parsed wrong: %+v", sc)
	}
	if sc.Runs[0].Steps != 10 || sc.Runs[0].SaveAs != "burgers-short" {
		t.Errorf("run overrides parsed wrong: %+v", sc.Runs[0])
	}
}

func TestRunScenario(t *testing.T) {
	st := store.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	sc := &Scenario{
		Name: "smoke",
		Runs: []ScenarioRun{
			{Preset: "burgers", Steps: 5, Output: 5, SaveAs: "short"},
		},
	}

	ids, err := RunScenario(context.Background(), sc, st)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 run id, got %d", len(ids))
	}

	meta, err := st.Load(ids[0])
	if err != nil {
		t.Fatalf("stored run not loadable: %v", err)
	}
	if meta.Name != "short" || meta.Steps != 5 {
		t.Errorf("stored metadata wrong: %+v", meta)
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	st := store.New(t.TempDir())
	sc := &Scenario{Runs: []ScenarioRun{{Preset: "nope"}}}
	if _, err := RunScenario(context.Background(), sc, st); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Preset:   "advection",
		Scheme:   0,
		Moment:   1,
		Min:      0.8,
		Max:      1.6,
		NumSteps: 3,
		RunSteps: 10,
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 points, got %d", len(results))
	}
	for _, r := range results {
		if r.Failed {
			t.Errorf("s=%v: unexpected failure", r.Value)
			continue
		}
		if r.Drift > 1e-10 {
			t.Errorf("s=%v: conservation drift %v", r.Value, r.Drift)
		}
		if r.TotalVariation <= 0 {
			t.Errorf("s=%v: expected positive total variation", r.Value)
		}
	}
	if results[0].Value != 0.8 || results[2].Value != 1.6 {
		t.Errorf("sweep endpoints wrong: %v, %v", results[0].Value, results[2].Value)
	}
}

func TestRunSweepValidation(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Preset: "nope", NumSteps: 2}); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Preset: "burgers", NumSteps: 1}); err == nil {
		t.Error("expected error for single-point sweep")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	mc := &MonteCarloConfig{
		Preset:       "advection",
		Perturbation: 0.1,
		NumTrials:    4,
		RunSteps:     5,
		Seed:         42,
	}

	results, err := RunMonteCarlo(context.Background(), mc)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(results))
	}

	stable, unstable := MonteCarloStats(results)
	if stable != 4 || unstable != 0 {
		t.Errorf("mild perturbations should stay stable: %d stable, %d unstable", stable, unstable)
	}
	for _, r := range results {
		if r.Scale < 0.9 || r.Scale > 1.1 {
			t.Errorf("trial %d: scale %v outside perturbation range", r.TrialID, r.Scale)
		}
	}
}
