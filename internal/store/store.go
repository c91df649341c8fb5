// Package store persists runs on disk: one directory per run holding
// metadata.json and moments.csv with the conserved-moment snapshots.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/runner"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Dim       int                `json:"dim"`
	Points    []int              `json:"points"`
	Dx        float64            `json:"dx"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Boundary  string             `json:"boundary"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run: metadata.json plus moments.csv with one row per
// snapshot and site, columns time, site, then the conserved moments.
func (s *Store) Save(cfg *config.Config, result *runner.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Timestamp: time.Now(),
		Dim:       cfg.Dim,
		Points:    cfg.Points,
		Dx:        cfg.Dx,
		Dt:        cfg.Dt,
		Steps:     result.StepsTaken,
		Boundary:  cfg.Boundary,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "moments.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Snapshots) == 0 {
		return runID, nil
	}

	header := []string{"time", "site"}
	for i := range result.Snapshots[0] {
		header = append(header, fmt.Sprintf("m%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for k, snap := range result.Snapshots {
		t := result.Times[k]
		sites := len(snap[0])
		for site := 0; site < sites; site++ {
			row := []string{
				strconv.FormatFloat(t, 'g', -1, 64),
				strconv.Itoa(site),
			}
			for _, moment := range snap {
				row = append(row, strconv.FormatFloat(moment[site], 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadMoments reads moments.csv back into snapshot form: times[k] and
// snapshots[k][moment][site]. A row with site 0 starts a new snapshot.
func (s *Store) LoadMoments(runID string) ([]float64, [][][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "moments.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][][]float64{}, nil
	}

	nc := len(records[0]) - 2
	times := []float64{}
	snapshots := [][][]float64{}

	for _, record := range records[1:] {
		if len(record) != nc+2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		site, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}

		if site == 0 {
			times = append(times, t)
			snap := make([][]float64, nc)
			for i := range snap {
				snap[i] = []float64{}
			}
			snapshots = append(snapshots, snap)
		}
		if len(snapshots) == 0 {
			continue
		}
		snap := snapshots[len(snapshots)-1]
		for i := 0; i < nc; i++ {
			v, err := strconv.ParseFloat(record[i+2], 64)
			if err != nil {
				v = 0
			}
			snap[i] = append(snap[i], v)
		}
	}

	return times, snapshots, nil
}
