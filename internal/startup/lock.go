package startup

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"media-catalog/internal/logging"
)

// ErrCatalogLocked is returned when another process holds the run lock.
var ErrCatalogLocked = errors.New("catalog is in use by another process")

// RunLock is an exclusive advisory lock held for the lifetime of a run.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the lock at path without blocking.
func AcquireRunLock(path string) (*RunLock, error) {
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogLocked, path)
	}

	logging.Debug("Acquired run lock %s", path)
	return &RunLock{lock: lock}, nil
}

// Release drops the lock. Safe to call more than once.
func (l *RunLock) Release() {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.Warn("failed to release lock %s: %v", l.lock.Path(), err)
	}
}
