package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Name != "burgers" {
		t.Errorf("expected name burgers, got %s", cfg.Name)
	}
	if cfg.Dim != 1 {
		t.Errorf("expected dim 1, got %d", cfg.Dim)
	}
	if cfg.Dx <= 0 || cfg.Dt <= 0 {
		t.Error("dx and dt should be positive")
	}
	if len(cfg.Schemes) != 1 {
		t.Fatalf("expected 1 scheme, got %d", len(cfg.Schemes))
	}
	if cfg.NumConserved() != 1 {
		t.Errorf("expected 1 conserved moment, got %d", cfg.NumConserved())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("advection")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Schemes[0].Velocities) != 3 {
		t.Errorf("expected 3 velocities, got %d", len(cfg.Schemes[0].Velocities))
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %s before %s", names[i-1], names[i])
		}
	}
}

func TestPresetsConsistent(t *testing.T) {
	for name, cfg := range Presets {
		if cfg.NumConserved() != len(cfg.Init) {
			t.Errorf("%s: %d conserved moments but %d init profiles",
				name, cfg.NumConserved(), len(cfg.Init))
		}
		for i, sc := range cfg.Schemes {
			q := len(sc.Velocities)
			if len(sc.Relaxation) != q {
				t.Errorf("%s scheme %d: %d relaxation parameters for %d velocities",
					name, i, len(sc.Relaxation), q)
			}
			if len(sc.Polynomials) != q {
				t.Errorf("%s scheme %d: %d polynomials for %d velocities",
					name, i, len(sc.Polynomials), q)
			}
			if len(sc.Equilibria)+len(sc.Conserved) != q {
				t.Errorf("%s scheme %d: equilibria and conserved moments do not cover all %d moments",
					name, i, q)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	orig := GetPreset("wave")

	if err := Save(path, orig); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != orig.Name || loaded.Dim != orig.Dim {
		t.Error("name or dim did not round trip")
	}
	if len(loaded.Schemes) != len(orig.Schemes) {
		t.Fatalf("expected %d schemes, got %d", len(orig.Schemes), len(loaded.Schemes))
	}
	eq := loaded.Schemes[1].Equilibria[0]
	if eq.Moment != 1 || eq.Terms[0].Coef != 0.25 {
		t.Errorf("equilibrium did not round trip: %+v", eq)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
