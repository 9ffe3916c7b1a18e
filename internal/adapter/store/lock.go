package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// BuildLock serializes index builds against one cache path. At most one
// build may run per cache location; a second builder fails fast instead of
// racing the first.
type BuildLock struct {
	flock *flock.Flock
}

func NewBuildLock(cachePath string) *BuildLock {
	return &BuildLock{flock: flock.New(cachePath + ".lock")}
}

// Acquire takes the lock without blocking. It reports an error when another
// build already holds it.
func (l *BuildLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire build lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another build is running against %s", l.flock.Path())
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *BuildLock) Release() {
	_ = l.flock.Unlock()
}
