package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/nibzard/goaltrack/internal/goal"
	"github.com/nibzard/goaltrack/internal/goalfile"
	"github.com/nibzard/goaltrack/internal/hooks"
	"github.com/nibzard/goaltrack/internal/logging"
)

const timestampHint = "e.g. 2024-01-01T00:00:00.000Z"

// loadGoal reads and semantically checks the configured goal file.
func (a *app) loadGoal() (*goalfile.File, error) {
	f, err := goalfile.Load(a.cfg.GoalFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (run 'goaltrack init -plan <file>' first)", err)
		}
		return nil, err
	}
	if err := goal.ValidatePlan(f.Plan); err != nil {
		return nil, fmt.Errorf("goal file %s: %w", a.cfg.GoalFile, err)
	}
	if err := goal.MatchProgress(f.Plan, f.Progress); err != nil {
		return nil, fmt.Errorf("goal file %s: %w", a.cfg.GoalFile, err)
	}
	return f, nil
}

// initCommand creates the goal file from a plan document.
func (a *app) initCommand(args []string) error {
	fs := newFlagSet("init")
	planPath := fs.String("plan", "", "Plan file (.json, .yaml or .yml)")
	force := fs.Bool("force", false, "Overwrite an existing goal file")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if *planPath == "" && len(positional) == 1 {
		*planPath = positional[0]
		positional = nil
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	if *planPath == "" {
		return fmt.Errorf("init requires -plan <file>")
	}

	if _, err := os.Stat(a.cfg.GoalFile); err == nil && !*force {
		return fmt.Errorf("goal file %s already exists (use -force to overwrite)", a.cfg.GoalFile)
	}

	plan, err := goalfile.LoadPlan(*planPath)
	if err != nil {
		return err
	}
	f, err := goalfile.New(plan)
	if err != nil {
		a.record(logging.Event{Event: "init", GoalID: plan.GoalID, Error: err.Error(), Code: string(goal.CodeOf(err))})
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.GoalFile), 0755); err != nil {
		return fmt.Errorf("create goal file directory: %w", err)
	}
	if err := f.Save(a.cfg.GoalFile); err != nil {
		return err
	}

	a.record(logging.Event{
		Event:   "init",
		GoalID:  plan.GoalID,
		OK:      true,
		Details: map[string]any{"steps": len(plan.Steps), "path": a.cfg.GoalFile},
	})
	a.logger.Info("goal initialized", "goal_id", plan.GoalID, "steps", len(plan.Steps))
	fmt.Fprintf(stdout, "Initialized goal %q with %d steps at %s\n", plan.GoalID, len(plan.Steps), a.cfg.GoalFile)
	return nil
}

// validateCommand runs schema and semantic validation on a goal file.
func (a *app) validateCommand(args []string) error {
	fs := newFlagSet("validate")
	noSchema := fs.Bool("no-schema", false, "Skip JSON Schema validation")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	path := a.cfg.GoalFile
	if len(positional) == 1 {
		path = positional[0]
	}

	f, err := goalfile.Load(path)
	if err != nil {
		return err
	}
	result := f.Validate(goalfile.ValidationOptions{SchemaPath: a.cfg.SchemaFile, SkipSchema: *noSchema})

	for _, warning := range result.Warnings {
		fmt.Fprintf(stdout, "Warning: %s\n", warning)
	}
	for _, verr := range result.Errors {
		fmt.Fprintf(stdout, "Error: %v\n", verr)
	}

	ev := logging.Event{
		Event:   "validate",
		GoalID:  f.Plan.GoalID,
		OK:      result.Valid,
		Details: map[string]any{"path": path, "errors": len(result.Errors), "schema": result.UsedSchema},
	}
	if !result.Valid {
		ev.Error = result.Errors[0].Error()
		ev.Code = string(goal.CodeOf(result.Errors[0]))
	}
	a.record(ev)

	if !result.Valid {
		return fmt.Errorf("%s is invalid (%d errors)", path, len(result.Errors))
	}
	schema := result.UsedSchema
	if schema == "" {
		schema = "skipped"
	}
	fmt.Fprintf(stdout, "OK: %s is valid (schema: %s)\n", path, schema)
	return nil
}

// nextCommand prints the next required step.
func (a *app) nextCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	f, err := a.loadGoal()
	if err != nil {
		return err
	}
	step, ok, err := goal.NextStep(f.Plan, f.Progress)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(stdout, "Goal complete.")
		return nil
	}
	fmt.Fprintf(stdout, "%s: %s\n", step.ID, step.Title)
	return nil
}

// remainingCommand lists the steps not yet completed, in plan order.
func (a *app) remainingCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	f, err := a.loadGoal()
	if err != nil {
		return err
	}
	steps, err := goal.RemainingSteps(f.Plan, f.Progress)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		fmt.Fprintln(stdout, "No remaining steps.")
		return nil
	}
	for i, step := range steps {
		fmt.Fprintf(stdout, "%d. %s: %s\n", i+1, step.ID, step.Title)
	}
	return nil
}

// statusCommand prints a per-step progress summary.
func (a *app) statusCommand(args []string) error {
	fs := newFlagSet("status")
	asJSON := fs.Bool("json", false, "Print the summary as JSON")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}

	f, err := a.loadGoal()
	if err != nil {
		return err
	}
	summary, err := goal.Summarize(f.Plan, f.Progress)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(summary)
	return nil
}

func printSummary(s goal.Summary) {
	fmt.Fprintf(stdout, "Goal: %s (%s)\n", s.Title, s.GoalID)
	fmt.Fprintf(stdout, "Progress: %.0f%% (%d/%d steps)\n", s.Percent*100, s.Completed, s.Total)
	fmt.Fprintln(stdout)
	for _, st := range s.Steps {
		switch {
		case st.Done:
			fmt.Fprintf(stdout, "  ✓ %s  %s  (%s)\n", st.Step.ID, st.Step.Title, st.CompletedAt)
		case s.Next != nil && st.Step.ID == s.Next.ID:
			fmt.Fprintf(stdout, "  ○ %s  %s  <- next\n", st.Step.ID, st.Step.Title)
		default:
			fmt.Fprintf(stdout, "  ○ %s  %s\n", st.Step.ID, st.Step.Title)
		}
	}
	if s.Complete {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Goal complete.")
	}
}

// advanceCommand records completion of stepID, persists it with a
// compare-and-swap commit, journals the result and runs the hook.
func (a *app) advanceCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("advance")
	at := fs.String("at", "", "Completion timestamp ("+timestampHint+")")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("advance requires exactly one step id")
	}
	stepID := positional[0]

	f, err := a.loadGoal()
	if err != nil {
		return err
	}

	var next goal.Progress
	if *at != "" {
		next, err = goal.AdvanceAt(f.Plan, f.Progress, stepID, *at)
	} else {
		next, err = goal.Advance(f.Plan, f.Progress, stepID)
	}
	if err != nil {
		a.record(logging.Event{Event: "advance", GoalID: f.Plan.GoalID, StepID: stepID, Error: err.Error(), Code: string(goal.CodeOf(err))})
		a.logger.Debug("advance rejected", "step_id", stepID, "code", goal.CodeOf(err))
		return err
	}

	updated, err := goalfile.Commit(a.cfg.GoalFile, f.Progress, next)
	if err != nil {
		a.record(logging.Event{Event: "advance", GoalID: f.Plan.GoalID, StepID: stepID, Error: err.Error(), Code: string(goal.CodeOf(err))})
		return err
	}

	completion := updated.Progress.Completed[len(updated.Progress.Completed)-1]
	complete, _ := goal.IsComplete(updated.Plan, updated.Progress)
	record := hooks.Record{
		GoalID:      updated.Plan.GoalID,
		StepID:      completion.StepID,
		Title:       updated.Plan.Steps[updated.Progress.Len()-1].Title,
		CompletedAt: completion.CompletedAt,
		Completed:   updated.Progress.Len(),
		Total:       len(updated.Plan.Steps),
		Complete:    complete,
	}

	a.record(logging.Event{
		Event:   "advance",
		GoalID:  record.GoalID,
		StepID:  record.StepID,
		OK:      true,
		Details: map[string]any{"completed_at": record.CompletedAt, "completed": record.Completed, "total": record.Total, "complete": complete},
	})
	a.logger.Info("step completed", "goal_id", record.GoalID, "step_id", record.StepID, "completed", record.Completed, "total", record.Total)

	fmt.Fprintf(stdout, "Completed %s: %s (%d/%d)\n", record.StepID, record.Title, record.Completed, record.Total)
	if complete {
		fmt.Fprintln(stdout, "Goal complete.")
	}

	return a.runHook(ctx, "advance", record)
}

// runHook writes the completion record and invokes the configured hook.
func (a *app) runHook(ctx context.Context, label string, record hooks.Record) error {
	if a.cfg.HookCommand == "" {
		return nil
	}

	recordPath, err := a.openJournal().WriteRecord(label, record)
	if err != nil {
		return err
	}
	if recordPath == "" {
		// No journal: hand the hook a temporary record.
		tmp, err := os.CreateTemp("", "goaltrack-*.last.json")
		if err != nil {
			return fmt.Errorf("create record file: %w", err)
		}
		recordPath = tmp.Name()
		defer os.Remove(recordPath)
		if err := json.NewEncoder(tmp).Encode(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write record file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("write record file: %w", err)
		}
	}

	result, err := hooks.Invoke(ctx, hooks.Options{
		Command:    a.cfg.HookCommand,
		Args:       a.cfg.HookArgs,
		RecordPath: recordPath,
		Label:      label,
		WorkDir:    a.cfg.ProjectRoot,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	a.record(logging.Event{
		Event:   "hook",
		GoalID:  record.GoalID,
		StepID:  record.StepID,
		OK:      err == nil,
		Error:   errString(err),
		Details: map[string]any{"command": result.Command, "exit_code": result.ExitCode},
	})
	if err != nil {
		a.logger.Error("hook failed", "command", a.cfg.HookCommand, "exit_code", result.ExitCode)
		return fmt.Errorf("step %s was recorded but the hook failed: %w", record.StepID, err)
	}
	return nil
}

// checkCommand verifies that the progress in next only extends the progress
// in previous. next defaults to the configured goal file.
func (a *app) checkCommand(args []string) error {
	fs := newFlagSet("check")
	quiet := fs.Bool("quiet", false, "Print only true or false")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 1 || len(positional) > 2 {
		return fmt.Errorf("check requires <previous-file> [next-file]")
	}
	prevPath, nextPath := positional[0], a.cfg.GoalFile
	if len(positional) == 2 {
		nextPath = positional[1]
	}

	prev, err := goalfile.Load(prevPath)
	if err != nil {
		return err
	}
	next, err := goalfile.Load(nextPath)
	if err != nil {
		return err
	}

	if *quiet {
		ok := samePlan(prev.Plan, next.Plan) && goal.IsForwardOnly(next.Plan, prev.Progress, next.Progress)
		fmt.Fprintln(stdout, ok)
		return nil
	}

	if !samePlan(prev.Plan, next.Plan) {
		err = fmt.Errorf("plans differ between %s and %s", prevPath, nextPath)
	} else {
		err = goal.AssertForwardOnly(next.Plan, prev.Progress, next.Progress)
	}
	a.record(logging.Event{
		Event:   "check",
		GoalID:  next.Plan.GoalID,
		OK:      err == nil,
		Error:   errString(err),
		Code:    string(goal.CodeOf(err)),
		Details: map[string]any{"previous": prevPath, "next": nextPath},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "OK: %d -> %d completed steps, forward only\n", prev.Progress.Len(), next.Progress.Len())
	return nil
}

func samePlan(a, b goal.Plan) bool {
	return a.GoalID == b.GoalID && a.Title == b.Title && slices.Equal(a.Steps, b.Steps)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
