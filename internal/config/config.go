// Package config describes a run as data: lattice geometry, elementary
// schemes (velocities, moment polynomials, equilibria, relaxation
// parameters), boundary kind and initial profiles. Configs are compiled
// once by the registry into a validated scheme; nothing here is
// re-interpreted while stepping.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPoints = 128
	DefaultDx     = 1.0
	DefaultDt     = 1.0
	DefaultSteps  = 200
	DefaultOutput = 10
)

type Config struct {
	Name     string  `yaml:"name"`
	Dim      int     `yaml:"dim"`
	Points   []int   `yaml:"points"`
	Dx       float64 `yaml:"dx"`
	Dt       float64 `yaml:"dt"`
	Steps    int     `yaml:"steps"`
	Output   int     `yaml:"output"`
	Validate bool    `yaml:"validate"`

	Boundary       string    `yaml:"boundary"`
	BoundaryValues []float64 `yaml:"boundary_values,omitempty"`

	Schemes []SchemeConfig `yaml:"schemes"`
	Init    []InitConfig   `yaml:"init"`
}

// SchemeConfig is one elementary scheme. Polynomials and Matrix are
// alternatives for the moment transform; Equilibria lists only the
// relaxed moments.
type SchemeConfig struct {
	Velocities  []int          `yaml:"velocities"`
	Polynomials [][]TermConfig `yaml:"polynomials,omitempty"`
	Matrix      [][]float64    `yaml:"matrix,omitempty"`
	Conserved   []int          `yaml:"conserved_moments"`
	Equilibria  []EqConfig     `yaml:"equilibrium,omitempty"`
	Relaxation  []float64      `yaml:"relaxation_parameters"`
}

// TermConfig is one monomial coef * X^x * Y^y * Z^z of a moment polynomial.
type TermConfig struct {
	Coef float64 `yaml:"coef"`
	X    int     `yaml:"x,omitempty"`
	Y    int     `yaml:"y,omitempty"`
	Z    int     `yaml:"z,omitempty"`
}

// EqConfig gives the equilibrium of one relaxed moment as a polynomial
// in the conserved moments.
type EqConfig struct {
	Moment int            `yaml:"moment"`
	Terms  []EqTermConfig `yaml:"terms"`
}

// EqTermConfig is coef times a product of conserved moments raised to
// the listed powers; trailing moments may be omitted.
type EqTermConfig struct {
	Coef   float64 `yaml:"coef"`
	Powers []int   `yaml:"powers,omitempty"`
}

// InitConfig sets the initial profile of one conserved moment.
type InitConfig struct {
	Profile string             `yaml:"profile"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

// Default returns the Burgers D1Q2 run, the smallest complete example
// of the formalism.
func Default() *Config {
	cfg := *GetPreset("burgers")
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Points: []int{DefaultPoints},
		Dx:     DefaultDx,
		Dt:     DefaultDt,
		Steps:  DefaultSteps,
		Output: DefaultOutput,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NumConserved counts the conserved moments across all elementary
// schemes; it is the number of init profiles a run needs.
func (c *Config) NumConserved() int {
	n := 0
	for _, sc := range c.Schemes {
		n += len(sc.Conserved)
	}
	return n
}
