package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/tanklab/internal/sim"
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
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	InitH     float64            `json:"init_height"`
	InitT     float64            `json:"init_temp"`
	EqH       float64            `json:"eq_height"`
	EqT       float64            `json:"eq_temp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one comparison run: metadata.json plus a trajectories.csv
// with both simulators' height and temperature series side by side.
func (s *Store) Save(meta RunMetadata, cmp sim.Comparison) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	csvPath := filepath.Join(runDir, "trajectories.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step", "height_actual", "temp_actual", "height_linear", "temp_linear"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range cmp.Nonlinear.Heights {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(cmp.Nonlinear.Heights[i], 'f', 6, 64),
			strconv.FormatFloat(cmp.Nonlinear.Temps[i], 'f', 6, 64),
			strconv.FormatFloat(cmp.Linear.Heights[i], 'f', 6, 64),
			strconv.FormatFloat(cmp.Linear.Temps[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
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

// LoadTrajectories reads back the stored comparison series.
func (s *Store) LoadTrajectories(runID string) (actual, linear sim.Trajectories, err error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectories.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return sim.Trajectories{}, sim.Trajectories{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return sim.Trajectories{}, sim.Trajectories{}, err
	}

	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 5 {
			continue
		}
		vals := make([]float64, 4)
		bad := false
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				bad = true
				break
			}
			vals[j] = v
		}
		if bad {
			continue
		}
		actual.Heights = append(actual.Heights, vals[0])
		actual.Temps = append(actual.Temps, vals[1])
		linear.Heights = append(linear.Heights, vals[2])
		linear.Temps = append(linear.Temps, vals[3])
	}

	return actual, linear, nil
}
