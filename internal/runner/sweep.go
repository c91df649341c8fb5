package runner

import (
	"context"
	"sync"

	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/stepper"
)

// InitFunc builds the initial distribution field for one runner's geometry.
type InitFunc func(st *stepper.Stepper) (*lattice.Field, error)

// Sweep runs several configured runners against the same initial condition
// in parallel. Typical use is comparing relaxation parameters on one scheme
// family.
type Sweep struct {
	runners []*Runner
}

func NewSweep(runners []*Runner) *Sweep {
	return &Sweep{runners: runners}
}

func (s *Sweep) Run(ctx context.Context, cfg Config, init InitFunc) ([]*Result, error) {
	results := make([]*Result, len(s.runners))
	errs := make([]error, len(s.runners))

	var wg sync.WaitGroup
	for i, r := range s.runners {
		wg.Add(1)
		go func(idx int, r *Runner) {
			defer wg.Done()

			f, err := init(r.Stepper())
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx, f, cfg)
		}(i, r)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
