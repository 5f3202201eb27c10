// Package logging writes the per-run JSONL journal, completion records and
// console output.
package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one line of the journal.
type Event struct {
	Time    string         `json:"time"`
	RunID   string         `json:"run_id"`
	Event   string         `json:"event"`
	GoalID  string         `json:"goal_id,omitempty"`
	StepID  string         `json:"step_id,omitempty"`
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Journal manages the JSONL file and completion records of one run.
// A nil *Journal is valid and discards everything.
type Journal struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenJournal creates the project log directory under baseDir and a fresh
// <run-id>.jsonl file in it.
func OpenJournal(baseDir, workDir string) (*Journal, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := newRunID(time.Now())
	logPath := filepath.Join(logDir, id+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &Journal{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
		enc:     json.NewEncoder(file),
	}, nil
}

// Log appends ev to the journal, filling in the time and run id.
func (j *Journal) Log(ev Event) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.enc == nil {
		return fmt.Errorf("journal is closed")
	}
	if ev.Time == "" {
		ev.Time = time.Now().UTC().Format(time.RFC3339Nano)
	}
	ev.RunID = j.RunID
	if err := j.enc.Encode(ev); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	j.enc = nil
	return err
}

// RecordPath returns the path of the completion record for label.
func (j *Journal) RecordPath(label string) string {
	if j == nil {
		return ""
	}
	return filepath.Join(j.Dir, fmt.Sprintf("%s-%s.last.json", j.RunID, sanitizeLabel(label)))
}

// WriteRecord writes v as indented JSON to RecordPath(label) and returns the
// path.
func (j *Journal) WriteRecord(label string, v any) (string, error) {
	if j == nil {
		return "", nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	path := j.RecordPath(label)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

// FindLogDir returns the journal directory for workDir under baseDir.
// Work directories inside one git checkout share a directory.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}

	if workDir == "" {
		workDir = "."
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	baseDir = resolveBaseDir(baseDir, workDir)
	return filepath.Join(baseDir, projectSlug(resolveProjectRoot(workDir))), nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			if root := strings.TrimSpace(string(output)); root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

// slugify keeps [A-Za-z0-9._-] and collapses every other run of bytes into a
// single underscore.
func slugify(input string) string {
	slug := strings.Trim(replaceInvalid(input, "._-", true), "_")
	if slug == "" {
		return "project"
	}
	return slug
}

// sanitizeLabel keeps [A-Za-z0-9_-] and replaces every other byte with an
// underscore.
func sanitizeLabel(input string) string {
	label := strings.Trim(replaceInvalid(input, "_-", false), "_")
	if label == "" {
		return "run"
	}
	return label
}

func replaceInvalid(input, extra string, collapse bool) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			strings.IndexByte(extra, c) >= 0
		if valid {
			b.WriteByte(c)
			lastUnderscore = false
			continue
		}
		if collapse && lastUnderscore {
			continue
		}
		b.WriteByte('_')
		lastUnderscore = true
	}
	return b.String()
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// newRunID returns <date>-<time>-<8 hex chars>, e.g. 20240101-120000-1a2b3c4d.
func newRunID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s", t.UTC().Format("20060102-150405"), suffix)
}
