// Package automation scripts multi-run workflows: scenarios loaded from
// YAML, relaxation-parameter sweeps and perturbed-initial-condition
// trials.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lbmkit/lbmkit/internal/analysis"
	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/registry"
	"github.com/lbmkit/lbmkit/internal/store"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun selects a preset and overrides parts of it. Zero-valued
// fields keep the preset's settings.
type ScenarioRun struct {
	Preset   string `yaml:"preset"`
	Steps    int    `yaml:"steps,omitempty"`
	Output   int    `yaml:"output,omitempty"`
	Points   []int  `yaml:"points,omitempty"`
	Boundary string `yaml:"boundary,omitempty"`
	SaveAs   string `yaml:"save_as,omitempty"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (r ScenarioRun) resolve() (*config.Config, error) {
	base := config.GetPreset(r.Preset)
	if base == nil {
		return nil, fmt.Errorf("automation: unknown preset: %s", r.Preset)
	}
	cfg := *base
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.Output > 0 {
		cfg.Output = r.Output
	}
	if len(r.Points) > 0 {
		cfg.Points = r.Points
	}
	if r.Boundary != "" {
		cfg.Boundary = r.Boundary
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}
	return &cfg, nil
}

// RunScenario executes every run in order, storing each; it returns the
// stored run ids.
func RunScenario(ctx context.Context, scenario *Scenario, st *store.Store) ([]string, error) {
	reg := registry.NewRegistry()
	ids := make([]string, 0, len(scenario.Runs))

	for i, sr := range scenario.Runs {
		fmt.Printf("running %d/%d: %s\n", i+1, len(scenario.Runs), sr.Preset)

		cfg, err := sr.resolve()
		if err != nil {
			return ids, fmt.Errorf("run %d: %w", i+1, err)
		}

		run, f, err := reg.Build(cfg)
		if err != nil {
			return ids, fmt.Errorf("run %d: %w", i+1, err)
		}

		result, err := run.Run(ctx, f, registry.RunConfig(cfg))
		if err != nil {
			return ids, fmt.Errorf("run %d: %w", i+1, err)
		}

		id, err := st.Save(cfg, result)
		if err != nil {
			return ids, fmt.Errorf("run %d save: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// ParameterSweep varies one relaxation parameter over a range.
type ParameterSweep struct {
	Preset   string
	Scheme   int
	Moment   int
	Min      float64
	Max      float64
	NumSteps int
	RunSteps int
}

// SweepResult summarizes one sweep point.
type SweepResult struct {
	Value          float64
	Drift          float64
	InRange        float64
	TotalVariation float64
	Failed         bool
}

// RunSweep evaluates the sweep points in order. A failed run marks its
// point instead of aborting the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("automation: unknown preset: %s", sweep.Preset)
	}
	if sweep.Scheme >= len(base.Schemes) {
		return nil, fmt.Errorf("automation: preset has %d schemes", len(base.Schemes))
	}
	if sweep.Moment >= len(base.Schemes[sweep.Scheme].Relaxation) {
		return nil, fmt.Errorf("automation: scheme has %d moments", len(base.Schemes[sweep.Scheme].Relaxation))
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("automation: sweep needs at least 2 points")
	}

	reg := registry.NewRegistry()
	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*step

		cfg := sweepConfig(base, sweep, val)
		res := SweepResult{Value: val}

		run, f, err := reg.Build(cfg)
		if err != nil {
			return nil, err
		}
		result, err := run.Run(ctx, f, registry.RunConfig(cfg))
		if err != nil {
			res.Failed = true
			results = append(results, res)
			continue
		}

		res.Drift = result.Metrics["conservation_drift"]
		res.InRange = result.Metrics["range"]
		if len(result.Snapshots) > 0 {
			last := result.Snapshots[len(result.Snapshots)-1]
			res.TotalVariation = analysis.TotalVariation(last[0])
		}
		results = append(results, res)
	}

	return results, nil
}

// sweepConfig deep-copies the varied scheme so the preset stays intact.
func sweepConfig(base *config.Config, sweep *ParameterSweep, val float64) *config.Config {
	cfg := *base
	cfg.Validate = true
	cfg.Output = cfg.Steps
	if sweep.RunSteps > 0 {
		cfg.Steps = sweep.RunSteps
		cfg.Output = sweep.RunSteps
	}
	cfg.Schemes = append([]config.SchemeConfig(nil), base.Schemes...)
	sc := cfg.Schemes[sweep.Scheme]
	sc.Relaxation = append([]float64(nil), sc.Relaxation...)
	sc.Relaxation[sweep.Moment] = val
	cfg.Schemes[sweep.Scheme] = sc
	return &cfg
}

// MonteCarloConfig perturbs the amplitude of every initial profile and
// counts how many runs stay bounded.
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	RunSteps     int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Scale   float64
	Stable  bool
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	base := config.GetPreset(mc.Preset)
	if base == nil {
		return nil, fmt.Errorf("automation: unknown preset: %s", mc.Preset)
	}

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	reg := registry.NewRegistry()
	results := make([]MonteCarloResult, 0, mc.NumTrials)

	for trial := 0; trial < mc.NumTrials; trial++ {
		scale := 1 + (rng.Float64()-0.5)*2*mc.Perturbation

		cfg := *base
		cfg.Validate = true
		cfg.Output = 0
		if mc.RunSteps > 0 {
			cfg.Steps = mc.RunSteps
		}
		cfg.Init = make([]config.InitConfig, len(base.Init))
		for i, ic := range base.Init {
			params := make(map[string]float64, len(ic.Params)+1)
			for k, v := range ic.Params {
				params[k] = v
			}
			for _, key := range []string{"amplitude", "left", "right", "value"} {
				if v, ok := params[key]; ok {
					params[key] = v * scale
				}
			}
			cfg.Init[i] = config.InitConfig{Profile: ic.Profile, Params: params}
		}

		run, f, err := reg.Build(&cfg)
		if err != nil {
			return nil, err
		}

		_, err = run.Run(ctx, f, registry.RunConfig(&cfg))
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Scale:   scale,
			Stable:  err == nil,
		})
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}
