package metrics

import (
	"math"
	"testing"
)

func TestTotalMass(t *testing.T) {
	m := NewTotalMass(0)
	m.Observe([][]float64{{1, 2, 3}}, 0)
	if m.Value() != 6 {
		t.Errorf("expected 6, got %g", m.Value())
	}
	m.Observe([][]float64{{1, 1, 1}}, 1)
	if m.Value() != 3 {
		t.Errorf("expected 3, got %g", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %g", m.Value())
	}
}

func TestConservationDrift(t *testing.T) {
	m := NewConservationDrift()
	m.Observe([][]float64{{1, 1}, {2, 2}}, 0)
	if m.Value() != 0 {
		t.Errorf("expected 0 after first observation, got %g", m.Value())
	}

	m.Observe([][]float64{{1, 1}, {2, 2}}, 1)
	if m.Value() != 0 {
		t.Errorf("expected 0 for conserved totals, got %g", m.Value())
	}

	m.Observe([][]float64{{1, 1.2}, {2, 2}}, 2)
	if want := 0.1; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %g, got %g", want, m.Value())
	}

	// Drift is a running maximum.
	m.Observe([][]float64{{1, 1}, {2, 2}}, 3)
	if want := 0.1; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift to stay %g, got %g", want, m.Value())
	}
}

func TestRange(t *testing.T) {
	m := NewRange(10)
	m.Observe([][]float64{{1, -2}}, 0)
	m.Observe([][]float64{{11, 0}}, 1)
	m.Observe([][]float64{{math.NaN(), 0}}, 2)
	m.Observe([][]float64{{3, 3}}, 3)

	if want := 0.5; m.Value() != want {
		t.Errorf("expected %g, got %g", want, m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %g", m.Value())
	}
}
