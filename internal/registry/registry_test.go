package registry

import (
	"context"
	"math"
	"testing"

	"github.com/lbmkit/lbmkit/internal/config"
)

func TestCompileBurgers(t *testing.T) {
	sc, err := Compile(config.GetPreset("burgers"))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if sc.QTotal() != 2 {
		t.Errorf("expected 2 velocities, got %d", sc.QTotal())
	}
	if sc.NumConserved() != 1 {
		t.Errorf("expected 1 conserved moment, got %d", sc.NumConserved())
	}

	m := sc.GlobalM()
	want := [][]float64{{1, 1}, {1, -1}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("M[%d][%d] = %v, want %v", i, j, m[i][j], want[i][j])
			}
		}
	}
}

func TestCompileMultiScheme(t *testing.T) {
	sc, err := Compile(config.GetPreset("wave"))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if sc.QTotal() != 4 {
		t.Errorf("expected 4 velocities total, got %d", sc.QTotal())
	}
	if sc.NumConserved() != 2 {
		t.Errorf("expected 2 conserved moments, got %d", sc.NumConserved())
	}

	// The first scheme relaxes its flux toward the second conserved
	// moment, the coupling the p-system needs.
	eq := sc.EquilibriumAt(1)
	if eq == nil {
		t.Fatal("expected equilibrium on slot 1")
	}
	if v := eq([]float64{3, 7}); math.Abs(v-7) > 1e-12 {
		t.Errorf("cross-scheme equilibrium = %v, want 7", v)
	}
}

func TestCompileD2Q9(t *testing.T) {
	sc, err := Compile(config.GetPreset("shear-d2q9"))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if sc.QTotal() != 9 {
		t.Errorf("expected 9 velocities, got %d", sc.QTotal())
	}
	if sc.NumConserved() != 3 {
		t.Errorf("expected 3 conserved moments, got %d", sc.NumConserved())
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile(&config.Config{Dim: 1, Dx: 1, Dt: 1}); err == nil {
		t.Error("expected error for config without schemes")
	}

	cfg := config.GetPreset("burgers")
	bad := *cfg
	bad.Schemes = []config.SchemeConfig{cfg.Schemes[0]}
	bad.Schemes[0].Equilibria = []config.EqConfig{{Moment: 9}}
	if _, err := Compile(&bad); err == nil {
		t.Error("expected error for equilibrium moment out of range")
	}
}

func TestProfiles(t *testing.T) {
	r := NewRegistry()

	gauss, err := r.Profile("gaussian", map[string]float64{
		"amplitude": 2, "center": 0.5, "width": 0.1, "offset": 1,
	})
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if v := gauss([]float64{0.5}); math.Abs(v-3) > 1e-12 {
		t.Errorf("gaussian at center = %v, want 3", v)
	}
	if v := gauss([]float64{0.5, 0.5}); math.Abs(v-3) > 1e-12 {
		t.Errorf("2d gaussian at center = %v, want 3", v)
	}

	step, _ := r.Profile("step", map[string]float64{"left": 1, "right": -1, "center": 0.5})
	if step([]float64{0.2}) != 1 || step([]float64{0.8}) != -1 {
		t.Error("step profile has wrong sides")
	}

	if _, err := r.Profile("vortex", nil); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestBoundaries(t *testing.T) {
	r := NewRegistry()
	sc, err := Compile(config.GetPreset("burgers"))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, name := range []string{"periodic", "copy", "none"} {
		bc, err := r.Boundary(name, sc, nil)
		if err != nil {
			t.Errorf("boundary %s failed: %v", name, err)
		}
		if bc.Name() != name {
			t.Errorf("boundary %s reports name %s", name, bc.Name())
		}
	}

	if _, err := r.Boundary("equilibrium", sc, []float64{0.5}); err != nil {
		t.Errorf("equilibrium boundary failed: %v", err)
	}
	if _, err := r.Boundary("equilibrium", sc, []float64{0.5, 0.5}); err == nil {
		t.Error("expected error for wrong value count")
	}
	if _, err := r.Boundary("reflective", sc, nil); err == nil {
		t.Error("expected error for unknown boundary")
	}
}

func TestBuildInitializesProfile(t *testing.T) {
	r := NewRegistry()
	run, f, err := r.Build(config.GetPreset("burgers"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	cons := run.Stepper().ConservedField(f)
	// step profile: left value below center, right value above
	if math.Abs(cons[0][10]-1) > 1e-12 {
		t.Errorf("u at left = %v, want 1", cons[0][10])
	}
	if math.Abs(cons[0][100]+1) > 1e-12 {
		t.Errorf("u at right = %v, want -1", cons[0][100])
	}
}

func TestBuildAndRun(t *testing.T) {
	cfg := config.GetPreset("advection")
	r := NewRegistry()
	run, f, err := r.Build(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	rc := RunConfig(cfg)
	rc.Steps = 20
	result, err := run.Run(context.Background(), f, rc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	if drift := result.Metrics["conservation_drift"]; drift > 1e-10 {
		t.Errorf("conservation drift %v too large", drift)
	}
}

func TestBuildInitMismatch(t *testing.T) {
	cfg := *config.GetPreset("burgers")
	cfg.Init = nil
	r := NewRegistry()
	if _, _, err := r.Build(&cfg); err == nil {
		t.Error("expected error for missing init profiles")
	}
}
