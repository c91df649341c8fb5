package config

import "sort"

// Presets are ready-to-run configurations, one per classic scheme. They
// double as worked examples of the YAML layout.
var Presets = map[string]*Config{
	"burgers": {
		Name: "burgers", Dim: 1, Points: []int{128},
		Dx: 1.0 / 128, Dt: 1.0 / 256, Steps: 200, Output: 10,
		Boundary: "copy",
		Schemes: []SchemeConfig{{
			Velocities: []int{1, 2},
			Polynomials: [][]TermConfig{
				{{Coef: 1}},
				{{Coef: 1, X: 1}},
			},
			Conserved: []int{0},
			Equilibria: []EqConfig{
				{Moment: 1, Terms: []EqTermConfig{{Coef: 0.5, Powers: []int{2}}}},
			},
			Relaxation: []float64{0, 1.5},
		}},
		Init: []InitConfig{
			{Profile: "step", Params: map[string]float64{"left": 1, "right": -1, "center": 0.5}},
		},
	},
	"advection": {
		Name: "advection", Dim: 1, Points: []int{128},
		Dx: 1.0 / 128, Dt: 1.0 / 128, Steps: 400, Output: 20,
		Boundary: "periodic",
		Schemes: []SchemeConfig{{
			Velocities: []int{0, 1, 2},
			Polynomials: [][]TermConfig{
				{{Coef: 1}},
				{{Coef: 1, X: 1}},
				{{Coef: 0.5, X: 2}},
			},
			Conserved: []int{0},
			Equilibria: []EqConfig{
				{Moment: 1, Terms: []EqTermConfig{{Coef: 0.5, Powers: []int{1}}}},
				{Moment: 2, Terms: []EqTermConfig{{Coef: 0.125, Powers: []int{1}}}},
			},
			Relaxation: []float64{0, 1.9, 1.2},
		}},
		Init: []InitConfig{
			{Profile: "sine", Params: map[string]float64{"amplitude": 0.5, "offset": 1, "modes": 1}},
		},
	},
	"wave": {
		Name: "wave", Dim: 1, Points: []int{256},
		Dx: 1.0 / 256, Dt: 1.0 / 256, Steps: 500, Output: 25,
		Boundary: "periodic",
		Schemes: []SchemeConfig{
			{
				Velocities: []int{1, 2},
				Polynomials: [][]TermConfig{
					{{Coef: 1}},
					{{Coef: 1, X: 1}},
				},
				Conserved: []int{0},
				Equilibria: []EqConfig{
					{Moment: 1, Terms: []EqTermConfig{{Coef: 1, Powers: []int{0, 1}}}},
				},
				Relaxation: []float64{0, 1.5},
			},
			{
				Velocities: []int{1, 2},
				Polynomials: [][]TermConfig{
					{{Coef: 1}},
					{{Coef: 1, X: 1}},
				},
				Conserved: []int{0},
				Equilibria: []EqConfig{
					{Moment: 1, Terms: []EqTermConfig{{Coef: 0.25, Powers: []int{1}}}},
				},
				Relaxation: []float64{0, 1.2},
			},
		},
		Init: []InitConfig{
			{Profile: "gaussian", Params: map[string]float64{"amplitude": 1, "center": 0.5, "width": 0.05}},
			{Profile: "constant", Params: map[string]float64{"value": 0}},
		},
	},
	"shear-d2q9": {
		Name: "shear-d2q9", Dim: 2, Points: []int{64, 64},
		Dx: 1.0 / 64, Dt: 1.0 / 64, Steps: 100, Output: 10,
		Boundary: "periodic",
		Schemes: []SchemeConfig{{
			Velocities: []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
			Polynomials: [][]TermConfig{
				{{Coef: 1}},
				{{Coef: 1, X: 1}},
				{{Coef: 1, Y: 1}},
				{{Coef: 3, X: 2}, {Coef: 3, Y: 2}, {Coef: -4}},
				{{Coef: 4.5, X: 4}, {Coef: 9, X: 2, Y: 2}, {Coef: 4.5, Y: 4},
					{Coef: -10.5, X: 2}, {Coef: -10.5, Y: 2}, {Coef: 4}},
				{{Coef: 3, X: 3}, {Coef: 3, X: 1, Y: 2}, {Coef: -5, X: 1}},
				{{Coef: 3, X: 2, Y: 1}, {Coef: 3, Y: 3}, {Coef: -5, Y: 1}},
				{{Coef: 1, X: 2}, {Coef: -1, Y: 2}},
				{{Coef: 1, X: 1, Y: 1}},
			},
			Conserved: []int{0, 1, 2},
			Equilibria: []EqConfig{
				{Moment: 3, Terms: []EqTermConfig{
					{Coef: -2, Powers: []int{1}},
					{Coef: 3, Powers: []int{0, 2}},
					{Coef: 3, Powers: []int{0, 0, 2}},
				}},
				{Moment: 4, Terms: []EqTermConfig{
					{Coef: 1, Powers: []int{1}},
					{Coef: 1.5, Powers: []int{0, 2}},
					{Coef: 1.5, Powers: []int{0, 0, 2}},
				}},
				{Moment: 5, Terms: []EqTermConfig{{Coef: -1, Powers: []int{0, 1}}}},
				{Moment: 6, Terms: []EqTermConfig{{Coef: -1, Powers: []int{0, 0, 1}}}},
				{Moment: 7, Terms: []EqTermConfig{
					{Coef: 1, Powers: []int{0, 2}},
					{Coef: -1, Powers: []int{0, 0, 2}},
				}},
				{Moment: 8, Terms: []EqTermConfig{{Coef: 1, Powers: []int{0, 1, 1}}}},
			},
			Relaxation: []float64{0, 0, 0, 1.9, 1.8, 1.9, 1.9, 1.7, 1.7},
		}},
		Init: []InitConfig{
			{Profile: "gaussian", Params: map[string]float64{"amplitude": 0.1, "offset": 1, "center": 0.5, "width": 0.1}},
			{Profile: "constant", Params: map[string]float64{"value": 0}},
			{Profile: "constant", Params: map[string]float64{"value": 0}},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
