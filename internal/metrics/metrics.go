// Package metrics accumulates per-step diagnostics over the conserved
// moment fields of a run.
package metrics

import "math"

// Metric observes the conserved-moment fields after each step.
// cons[i][site] is conserved moment i at interior site ordinal site.
type Metric interface {
	Name() string
	Observe(cons [][]float64, t float64)
	Value() float64
	Reset()
}

// TotalMass tracks the domain total of one conserved moment.
type TotalMass struct {
	name   string
	moment int
	last   float64
}

func NewTotalMass(moment int) *TotalMass {
	return &TotalMass{name: "total_mass", moment: moment}
}

func (m *TotalMass) Name() string { return m.name }

func (m *TotalMass) Observe(cons [][]float64, t float64) {
	if m.moment >= len(cons) {
		return
	}
	sum := 0.0
	for _, v := range cons[m.moment] {
		sum += v
	}
	m.last = sum
}

func (m *TotalMass) Value() float64 {
	return m.last
}

func (m *TotalMass) Reset() {
	m.last = 0
}

// ConservationDrift tracks the worst relative drift of any conserved-moment
// total against its value at the first observation. Collision and periodic
// streaming conserve these totals exactly, so any drift is a defect of the
// boundary or an instability.
type ConservationDrift struct {
	name     string
	initial  []float64
	maxDrift float64
	samples  int
}

func NewConservationDrift() *ConservationDrift {
	return &ConservationDrift{name: "conservation_drift"}
}

func (m *ConservationDrift) Name() string { return m.name }

func (m *ConservationDrift) Observe(cons [][]float64, t float64) {
	totals := make([]float64, len(cons))
	for i, field := range cons {
		for _, v := range field {
			totals[i] += v
		}
	}
	if m.samples == 0 {
		m.initial = totals
		m.samples++
		return
	}
	m.samples++
	for i, tot := range totals {
		ref := math.Abs(m.initial[i])
		if ref == 0 {
			ref = 1
		}
		drift := math.Abs(tot-m.initial[i]) / ref
		if drift > m.maxDrift {
			m.maxDrift = drift
		}
	}
}

func (m *ConservationDrift) Value() float64 { return m.maxDrift }

func (m *ConservationDrift) Reset() {
	m.initial = nil
	m.maxDrift = 0
	m.samples = 0
}

// Range reports the fraction of observations whose values all stayed within
// a threshold, a cheap blow-up detector.
type Range struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewRange(threshold float64) *Range {
	return &Range{name: "range", threshold: threshold}
}

func (m *Range) Name() string { return m.name }

func (m *Range) Observe(cons [][]float64, t float64) {
	m.samples++
	for _, field := range cons {
		for _, v := range field {
			if math.Abs(v) > m.threshold || math.IsNaN(v) {
				m.violations++
				return
			}
		}
	}
}

func (m *Range) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(m.violations)/float64(m.samples)
}

func (m *Range) Reset() {
	m.violations = 0
	m.samples = 0
}
