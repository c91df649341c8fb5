package optim

import (
	"context"
	"testing"

	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/registry"
	"github.com/lbmkit/lbmkit/internal/runner"
)

// buildAdvection varies the flux relaxation parameter of the advection
// preset.
func buildAdvection(params map[string]float64) (*runner.Runner, *lattice.Field, runner.Config, error) {
	base := config.GetPreset("advection")
	cfg := *base
	cfg.Steps = 10
	cfg.Output = 10
	cfg.Schemes = append([]config.SchemeConfig(nil), base.Schemes...)
	sc := cfg.Schemes[0]
	sc.Relaxation = append([]float64(nil), sc.Relaxation...)
	sc.Relaxation[1] = params["s1"]
	cfg.Schemes[0] = sc

	run, f, err := registry.NewRegistry().Build(&cfg)
	if err != nil {
		return nil, nil, runner.Config{}, err
	}
	return run, f, registry.RunConfig(&cfg), nil
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]string{"s1"}, [][]float64{{0.8, 1.2, 1.6}})

	bestParams, bestVal, err := g.Search(context.Background(), buildAdvection, "conservation_drift")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if bestParams == nil {
		t.Fatal("expected best parameters")
	}
	if _, ok := bestParams["s1"]; !ok {
		t.Error("result missing searched parameter")
	}
	if bestVal > 1e-10 {
		t.Errorf("best drift %v too large", bestVal)
	}
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"s1"}, [][]float64{{0.5}})
	failing := func(map[string]float64) (*runner.Runner, *lattice.Field, runner.Config, error) {
		return nil, nil, runner.Config{}, context.Canceled
	}

	bestParams, _, err := g.Search(context.Background(), failing, "conservation_drift")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if bestParams != nil {
		t.Error("expected nil parameters when every candidate fails")
	}
}
