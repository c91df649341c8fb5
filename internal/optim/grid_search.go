// Package optim tunes scheme parameters by exhaustive search over a
// grid, scoring each candidate run by one of its metrics.
package optim

import (
	"context"
	"math"

	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/runner"
)

// BuildFunc assembles a candidate run for one parameter combination.
type BuildFunc func(params map[string]float64) (*runner.Runner, *lattice.Field, runner.Config, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination and returns the parameters minimizing
// the named metric. Candidates that fail to build or run are skipped.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if depth == len(g.paramNames) {
		run, f, rc, err := build(current)
		if err != nil {
			return
		}

		result, err := run.Run(ctx, f, rc)
		if err != nil {
			return
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams)
	}
}
