package goalfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/goaltrack/internal/goal"
)

func testPlan() goal.Plan {
	return goal.Plan{
		GoalID: "goal-1",
		Title:  "Ship the thing",
		Steps: []goal.Step{
			{ID: "step-1", Title: "Define scope"},
			{ID: "step-2", Title: "Implement"},
			{ID: "step-3", Title: "Verify"},
		},
	}
}

func TestNewLoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "goal.json")

	original, err := New(testPlan())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	original.Progress, err = goal.AdvanceAt(original.Plan, original.Progress, "step-1", "2024-01-01T00:00:00.000Z")
	if err != nil {
		t.Fatalf("AdvanceAt failed: %v", err)
	}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion: got %d, want %d", loaded.SchemaVersion, SchemaVersion)
	}
	if loaded.Plan.GoalID != "goal-1" || len(loaded.Plan.Steps) != 3 {
		t.Errorf("Plan: got %+v", loaded.Plan)
	}
	if !loaded.Progress.Equal(original.Progress) {
		t.Errorf("Progress: got %+v, want %+v", loaded.Progress, original.Progress)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("saved file should end with a newline")
	}
	if !strings.Contains(string(data), "\n  \"plan\": {") {
		t.Error("saved file should use 2-space indentation")
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 1 {
		t.Errorf("expected only the goal file in %s, found %d entries", tmpDir, len(entries))
	}
}

func TestNewRejectsInvalidPlan(t *testing.T) {
	_, err := New(goal.Plan{GoalID: "g", Title: "T"})
	if !errors.Is(err, goal.ErrInvalidPlan) {
		t.Errorf("got %v, want invalid plan", err)
	}
}

func TestLoadEmptyCompleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goal.json")
	content := `{"schema_version":1,"plan":{"goal_id":"g","title":"T","steps":[{"id":"a","title":"A"}]},"progress":{"goal_id":"g"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Progress.Completed == nil {
		t.Error("Completed should be an empty slice after Load")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil || !strings.Contains(err.Error(), "read goal file") {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse goal file") {
		t.Errorf("bad json: got %v", err)
	}
}

func TestLoadPlan(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "plan.yaml")
	yamlContent := `goal_id: goal-1
title: Ship the thing
steps:
  - id: step-1
    title: Define scope
  - id: step-2
    title: Implement
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(tmpDir, "plan.json")
	jsonContent := `{"goal_id":"goal-1","title":"Ship the thing","steps":[{"id":"step-1","title":"Define scope"},{"id":"step-2","title":"Implement"}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonContent), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, jsonPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			plan, err := LoadPlan(path)
			if err != nil {
				t.Fatalf("LoadPlan failed: %v", err)
			}
			if plan.GoalID != "goal-1" || plan.Title != "Ship the thing" {
				t.Errorf("plan header: got %q %q", plan.GoalID, plan.Title)
			}
			if len(plan.Steps) != 2 || plan.Steps[1] != (goal.Step{ID: "step-2", Title: "Implement"}) {
				t.Errorf("steps: got %+v", plan.Steps)
			}
		})
	}
}
