// Package hooks invokes the external command configured to run after a step
// is recorded.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/nibzard/goaltrack/internal/utils"
)

// Options configures a hook invocation.
type Options struct {
	Command    string
	Args       []string // extra arguments placed before the standard ones
	RecordPath string
	Label      string
	WorkDir    string
	Stdout     io.Writer
	Stderr     io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	GoalID   string
	StepID   string
	Complete bool
}

// Record is the JSON document handed to the hook.
type Record struct {
	GoalID      string `json:"goal_id"`
	StepID      string `json:"step_id"`
	Title       string `json:"title,omitempty"`
	CompletedAt string `json:"completed_at"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	Complete    bool   `json:"complete"`
}

// Invoke runs the hook as
//
//	<command> [args...] <goal_id> <step_id> <record_path> <label>
//
// A missing command or record file is not an error; the hook is skipped.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" || opts.RecordPath == "" {
		return Result{}, nil
	}

	info, err := os.Stat(opts.RecordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("stat record file: %w", err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("record path is a directory: %s", opts.RecordPath)
	}

	raw, err := readRecord(opts.RecordPath)
	if err != nil {
		return Result{}, err
	}

	goalID, stepID, complete := extractRecordFields(raw)
	args := append(append([]string{}, opts.Args...), goalID, stepID, opts.RecordPath, opts.Label)
	name, argv := utils.CommandLine(runtime.GOOS, opts.Command, args)

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, name, argv...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		GoalID:   goalID,
		StepID:   stepID,
		Complete: complete,
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

func readRecord(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("record is empty: %s", path)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("record is not valid JSON: %s", path)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return raw, nil
}

func extractRecordFields(raw any) (string, string, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", "", false
	}
	complete, _ := obj["complete"].(bool)
	return stringField(obj["goal_id"]), stringField(obj["step_id"]), complete
}

func stringField(value any) string {
	s, _ := value.(string)
	return s
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
