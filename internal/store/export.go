package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/runner"
)

type ExportData struct {
	Name      string             `json:"name"`
	Dim       int                `json:"dim"`
	Points    []int              `json:"points"`
	Dx        float64            `json:"dx"`
	Dt        float64            `json:"dt"`
	Boundary  string             `json:"boundary"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Snapshots [][][]float64      `json:"snapshots"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newExportData(cfg *config.Config, result *runner.Result) ExportData {
	return ExportData{
		Name:      cfg.Name,
		Dim:       cfg.Dim,
		Points:    cfg.Points,
		Dx:        cfg.Dx,
		Dt:        cfg.Dt,
		Boundary:  cfg.Boundary,
		Steps:     result.StepsTaken,
		Times:     result.Times,
		Snapshots: result.Snapshots,
		Metrics:   result.Metrics,
	}
}

func exportJSON(w io.Writer, cfg *config.Config, result *runner.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *runner.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *runner.Result) error {
	return exportJSON(os.Stdout, cfg, result)
}
