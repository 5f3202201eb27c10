package goalfile

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/nibzard/goaltrack/internal/goal"
)

func largeFile(b *testing.B, steps, done int) *File {
	b.Helper()
	plan := goal.Plan{GoalID: "goal-large", Title: "Large goal"}
	for i := 1; i <= steps; i++ {
		plan.Steps = append(plan.Steps, goal.Step{ID: fmt.Sprintf("S%03d", i), Title: fmt.Sprintf("Step %d", i)})
	}
	f, err := New(plan)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	for i := 0; i < done; i++ {
		f.Progress, err = goal.AdvanceAt(f.Plan, f.Progress, plan.Steps[i].ID, "2024-01-01T00:00:00.000Z")
		if err != nil {
			b.Fatalf("AdvanceAt failed: %v", err)
		}
	}
	return f
}

// BenchmarkLoad benchmarks goal file loading with 100 steps, half done.
func BenchmarkLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "goal.json")
	if err := largeFile(b, 100, 50).Save(path); err != nil {
		b.Fatalf("Save failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkValidate benchmarks schema plus semantic validation.
func BenchmarkValidate(b *testing.B) {
	f := largeFile(b, 100, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := f.Validate(ValidationOptions{}); !result.Valid {
			b.Fatalf("unexpected errors: %v", result.Errors)
		}
	}
}

// BenchmarkCommit benchmarks the locked compare-and-swap write.
func BenchmarkCommit(b *testing.B) {
	path := filepath.Join(b.TempDir(), "goal.json")
	f := largeFile(b, 100, 50)
	if err := f.Save(path); err != nil {
		b.Fatalf("Save failed: %v", err)
	}
	next, err := goal.AdvanceAt(f.Plan, f.Progress, "S051", "2024-01-01T00:00:00.000Z")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		if err := f.Save(path); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := Commit(path, f.Progress, next); err != nil {
			b.Fatalf("Commit failed: %v", err)
		}
	}
}
