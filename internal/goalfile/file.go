package goalfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/goaltrack/internal/goal"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only goal file version this package reads and writes.
const SchemaVersion = 1

// File is the on-disk goal document.
type File struct {
	SchemaVersion int           `json:"schema_version"`
	Plan          goal.Plan     `json:"plan"`
	Progress      goal.Progress `json:"progress"`
}

// New validates plan and returns a goal file with empty progress.
func New(plan goal.Plan) (*File, error) {
	progress, err := goal.NewProgress(plan)
	if err != nil {
		return nil, err
	}
	return &File{
		SchemaVersion: SchemaVersion,
		Plan:          plan.Clone(),
		Progress:      progress,
	}, nil
}

// Load reads and parses a goal file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read goal file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse goal file: %w", err)
	}
	if f.Progress.Completed == nil {
		f.Progress.Completed = []goal.Completion{}
	}

	return &f, nil
}

// Save writes the goal file to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal goal file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("write goal file: %w", err)
	}

	return nil
}

// LoadPlan reads a standalone plan document. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func LoadPlan(path string) (goal.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return goal.Plan{}, fmt.Errorf("read plan file: %w", err)
	}

	var plan goal.Plan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return goal.Plan{}, fmt.Errorf("parse plan yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &plan); err != nil {
			return goal.Plan{}, fmt.Errorf("parse plan json: %w", err)
		}
	}

	return plan, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
