package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunMeta is the metadata written next to a run's responses.csv.
type RunMeta struct {
	RunID     string   `json:"run_id"`
	Input     string   `json:"input"`
	SUTs      []string `json:"suts"`
	Workers   int      `json:"workers"`
	Prompts   int      `json:"prompts"`
	WorkItems int      `json:"work_items"`
	Failures  int      `json:"failures"`
	DurationS int      `json:"duration_s"`
}

func NewRunMeta(input string, suts []string) *RunMeta {
	return &RunMeta{RunID: uuid.NewString(), Input: input, SUTs: suts}
}

// CreateRunDir makes a timestamped directory under <baseDir>/runs and
// repoints the <baseDir>/latest symlink at it.
func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

// ResponsesPath is where a run's output CSV lives inside its run dir.
func ResponsesPath(runDir string) string {
	return filepath.Join(runDir, "responses.csv")
}

func WriteRunMeta(runDir string, meta *RunMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run meta: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, "run.json"), data, 0o644)
}

func ReadRunMeta(runDir string) (*RunMeta, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "run.json"))
	if err != nil {
		return nil, fmt.Errorf("reading run meta: %w", err)
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing run meta: %w", err)
	}
	return &meta, nil
}
