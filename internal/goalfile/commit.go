package goalfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/goaltrack/internal/goal"
)

// ErrConflict is returned by Commit when the stored progress no longer equals
// the snapshot the caller started from.
var ErrConflict = errors.New("goal file changed since it was read")

// ErrLocked is returned by Commit when another writer holds the lock file.
var ErrLocked = errors.New("goal file is locked by another writer")

// Commit replaces the progress stored at path with next. The stored progress
// must equal expected and next must be a forward-only extension of it.
// The updated file is returned.
func Commit(path string, expected, next goal.Progress) (*File, error) {
	unlock, err := lock(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := Load(path)
	if err != nil {
		return nil, err
	}

	if !current.Progress.Equal(expected) {
		return nil, fmt.Errorf("%w: stored progress has %d completed steps, expected %d",
			ErrConflict, current.Progress.Len(), expected.Len())
	}

	if err := goal.AssertForwardOnly(current.Plan, current.Progress, next); err != nil {
		return nil, fmt.Errorf("commit %s: %w", path, err)
	}

	updated := *current
	updated.Progress = next.Clone()
	if err := updated.Save(path); err != nil {
		return nil, err
	}
	return &updated, nil
}

func lock(path string) (func(), error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return func() { os.Remove(lockPath) }, nil
}
