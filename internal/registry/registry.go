// Package registry maps config names to concrete pieces: it compiles
// scheme descriptions into validated schemes and assembles runners with
// boundaries, initial profiles and default metrics.
package registry

import (
	"fmt"
	"math"

	"github.com/lbmkit/lbmkit/internal/boundary"
	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/metrics"
	"github.com/lbmkit/lbmkit/internal/runner"
	"github.com/lbmkit/lbmkit/internal/scheme"
	"github.com/lbmkit/lbmkit/internal/stepper"
)

// Profile gives the initial value of one conserved moment at a physical
// point; pt has one coordinate per lattice dimension.
type Profile func(pt []float64) float64

type Registry struct {
	profiles   map[string]func(params map[string]float64) Profile
	boundaries map[string]func(sc *scheme.Scheme, values []float64) (boundary.Boundary, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		profiles:   make(map[string]func(map[string]float64) Profile),
		boundaries: make(map[string]func(*scheme.Scheme, []float64) (boundary.Boundary, error)),
	}

	r.profiles["constant"] = func(p map[string]float64) Profile {
		v := param(p, "value", 0)
		return func([]float64) float64 { return v }
	}
	r.profiles["gaussian"] = func(p map[string]float64) Profile {
		amp := param(p, "amplitude", 1)
		center := param(p, "center", 0.5)
		width := param(p, "width", 0.1)
		offset := param(p, "offset", 0)
		return func(pt []float64) float64 {
			d2 := 0.0
			for _, c := range pt {
				d := c - center
				d2 += d * d
			}
			return offset + amp*math.Exp(-d2/(2*width*width))
		}
	}
	r.profiles["step"] = func(p map[string]float64) Profile {
		left := param(p, "left", 1)
		right := param(p, "right", 0)
		center := param(p, "center", 0.5)
		return func(pt []float64) float64 {
			if pt[0] < center {
				return left
			}
			return right
		}
	}
	r.profiles["sine"] = func(p map[string]float64) Profile {
		amp := param(p, "amplitude", 1)
		offset := param(p, "offset", 0)
		modes := param(p, "modes", 1)
		return func(pt []float64) float64 {
			return offset + amp*math.Sin(2*math.Pi*modes*pt[0])
		}
	}

	r.boundaries["periodic"] = func(*scheme.Scheme, []float64) (boundary.Boundary, error) {
		return boundary.Periodic{}, nil
	}
	r.boundaries["copy"] = func(*scheme.Scheme, []float64) (boundary.Boundary, error) {
		return boundary.Copy{}, nil
	}
	r.boundaries["none"] = func(*scheme.Scheme, []float64) (boundary.Boundary, error) {
		return boundary.None{}, nil
	}
	r.boundaries["equilibrium"] = func(sc *scheme.Scheme, values []float64) (boundary.Boundary, error) {
		if len(values) != sc.NumConserved() {
			return nil, fmt.Errorf("registry: equilibrium boundary needs %d values, got %d",
				sc.NumConserved(), len(values))
		}
		return boundary.Equilibrium(sc, values), nil
	}

	return r
}

func param(p map[string]float64, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (r *Registry) Profile(name string, params map[string]float64) (Profile, error) {
	fn, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown profile: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) Boundary(name string, sc *scheme.Scheme, values []float64) (boundary.Boundary, error) {
	fn, ok := r.boundaries[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown boundary: %s", name)
	}
	return fn(sc, values)
}

func (r *Registry) ListProfiles() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListBoundaries() []string {
	names := make([]string, 0, len(r.boundaries))
	for name := range r.boundaries {
		names = append(names, name)
	}
	return names
}

// Compile turns the loosely-typed scheme descriptions of a config into a
// validated scheme. Equilibrium terms index the global conserved vector,
// so elementary schemes may couple through each other's moments.
func Compile(cfg *config.Config) (*scheme.Scheme, error) {
	if len(cfg.Schemes) == 0 {
		return nil, fmt.Errorf("registry: config has no schemes")
	}
	elems := make([]scheme.Elementary, len(cfg.Schemes))
	for i, sc := range cfg.Schemes {
		q := len(sc.Velocities)
		e := scheme.Elementary{
			Velocities: sc.Velocities,
			Conserved:  sc.Conserved,
			Relaxation: sc.Relaxation,
		}
		if len(sc.Matrix) > 0 {
			e.Matrix = sc.Matrix
		} else {
			e.Polynomials = make([]scheme.Polynomial, len(sc.Polynomials))
			for j, terms := range sc.Polynomials {
				p := make(scheme.Polynomial, len(terms))
				for k, t := range terms {
					p[k] = scheme.Term{Coef: t.Coef, PX: t.X, PY: t.Y, PZ: t.Z}
				}
				e.Polynomials[j] = p
			}
		}
		e.Equilibria = make([]scheme.Equilibrium, q)
		for _, eq := range sc.Equilibria {
			if eq.Moment < 0 || eq.Moment >= q {
				return nil, fmt.Errorf("registry: scheme %d: equilibrium moment %d out of range", i, eq.Moment)
			}
			terms := make([]scheme.EqTerm, len(eq.Terms))
			for k, t := range eq.Terms {
				terms[k] = scheme.EqTerm{Coef: t.Coef, Powers: t.Powers}
			}
			e.Equilibria[eq.Moment] = scheme.Poly(terms...)
		}
		elems[i] = e
	}
	return scheme.New(cfg.Dim, cfg.Dx, cfg.Dt, elems...)
}

// Build assembles a ready-to-run setup from a config: scheme, lattice,
// stepper, boundary, equilibrium-initialized field and default metrics.
func (r *Registry) Build(cfg *config.Config) (*runner.Runner, *lattice.Field, error) {
	sc, err := Compile(cfg)
	if err != nil {
		return nil, nil, err
	}
	lat, err := stepper.NewLatticeFor(sc, cfg.Points)
	if err != nil {
		return nil, nil, err
	}
	st, err := stepper.New(sc, lat)
	if err != nil {
		return nil, nil, err
	}
	bc, err := r.Boundary(cfg.Boundary, sc, cfg.BoundaryValues)
	if err != nil {
		return nil, nil, err
	}

	nc := sc.NumConserved()
	if len(cfg.Init) != nc {
		return nil, nil, fmt.Errorf("registry: %d init profiles for %d conserved moments",
			len(cfg.Init), nc)
	}
	cons := make([][]float64, nc)
	for i, ic := range cfg.Init {
		profile, err := r.Profile(ic.Profile, ic.Params)
		if err != nil {
			return nil, nil, err
		}
		vals := make([]float64, lat.Sites())
		pt := make([]float64, cfg.Dim)
		for site := range vals {
			x, y, z := lat.Coord(site)
			pt[0] = lat.X(x)
			if cfg.Dim >= 2 {
				pt[1] = lat.X(y)
			}
			if cfg.Dim >= 3 {
				pt[2] = lat.X(z)
			}
			vals[site] = profile(pt)
		}
		cons[i] = vals
	}
	f := lattice.NewField(lat, sc.QTotal())
	st.InitEquilibrium(f, cons)

	run := runner.New(st, bc)
	run.AddMetric(metrics.NewTotalMass(0))
	run.AddMetric(metrics.NewConservationDrift())
	run.AddMetric(metrics.NewRange(1e6))
	return run, f, nil
}

// RunConfig translates the run-control fields of a config.
func RunConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		Steps:         cfg.Steps,
		Output:        cfg.Output,
		ValidateField: cfg.Validate,
	}
}
