// Package runner drives the repeat-step loop of a lattice Boltzmann run:
// construct scheme, initialize f, step until done. It owns nothing
// algorithmic; collision and streaming live in the stepper, ghost values in
// the boundary.
package runner

import (
	"context"
	"fmt"

	"github.com/lbmkit/lbmkit/internal/boundary"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/metrics"
	"github.com/lbmkit/lbmkit/internal/stepper"
)

// Config controls one run.
type Config struct {
	Steps int
	// Output is the snapshot interval in steps; 0 keeps only the final state.
	Output int
	// ValidateField stops the run when the field picks up NaN or Inf values.
	ValidateField bool
}

// Observer sees the conserved-moment fields after every step.
type Observer interface {
	OnStep(cons [][]float64, t float64)
}

// Result collects the outputs of a run.
type Result struct {
	// Times and Snapshots hold the conserved-moment fields at the recorded
	// steps; Snapshots[n][i][site] is conserved moment i.
	Times      []float64
	Snapshots  [][][]float64
	Metrics    map[string]float64
	StepsTaken int
}

// StepError wraps an error with the step it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

// Runner binds a stepper to a boundary, metrics and observers.
type Runner struct {
	st        *stepper.Stepper
	bc        boundary.Boundary
	metrics   []metrics.Metric
	observers []Observer
}

func New(st *stepper.Stepper, bc boundary.Boundary) *Runner {
	return &Runner{st: st, bc: bc}
}

func (r *Runner) AddMetric(m metrics.Metric)  { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)      { r.observers = append(r.observers, o) }
func (r *Runner) Stepper() *stepper.Stepper   { return r.st }
func (r *Runner) Boundary() boundary.Boundary { return r.bc }

// Run advances f by cfg.Steps time steps. f is mutated in place (it holds
// the final state on return). Cancellation is honored between steps; a run
// never stops mid-step.
func (r *Runner) Run(ctx context.Context, f *lattice.Field, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("runner: steps must be positive, got %d", cfg.Steps)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	dt := r.st.Lattice().Dt
	next := lattice.NewField(r.st.Lattice(), f.Q)
	result := &Result{Metrics: make(map[string]float64)}

	r.observe(result, f, 0, cfg)

	for n := 0; n < cfg.Steps; n++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := r.st.Step(f, next, r.bc); err != nil {
			r.finish(result)
			return result, &StepError{Step: n, Time: float64(n) * dt, Wrapped: err}
		}
		f.Swap(next)
		result.StepsTaken++

		r.observe(result, f, n+1, cfg)

		if cfg.ValidateField && !f.IsFinite() {
			r.finish(result)
			return result, &StepError{Step: n, Time: float64(n+1) * dt, Wrapped: fmt.Errorf("field contains NaN or Inf")}
		}
	}

	if cfg.Output == 0 || result.StepsTaken%cfg.Output != 0 {
		r.snapshot(result, f, float64(result.StepsTaken)*dt)
	}
	r.finish(result)
	return result, nil
}

func (r *Runner) observe(result *Result, f *lattice.Field, n int, cfg Config) {
	needCons := len(r.metrics) > 0 || len(r.observers) > 0
	isOutput := cfg.Output > 0 && n%cfg.Output == 0
	if !needCons && !isOutput {
		return
	}
	t := float64(n) * r.st.Lattice().Dt
	cons := r.st.ConservedField(f)
	for _, m := range r.metrics {
		m.Observe(cons, t)
	}
	for _, o := range r.observers {
		o.OnStep(cons, t)
	}
	if isOutput {
		result.Times = append(result.Times, t)
		result.Snapshots = append(result.Snapshots, cons)
	}
}

func (r *Runner) snapshot(result *Result, f *lattice.Field, t float64) {
	result.Times = append(result.Times, t)
	result.Snapshots = append(result.Snapshots, r.st.ConservedField(f))
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
