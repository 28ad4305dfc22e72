//go:build unix

package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// TryLock claims root for a single watcher by locking <root>/.foldertxt.lock.
// It returns ErrLocked at once if another watcher owns the root.
func TryLock(root string) (*os.File, error) {
	lockPath := filepath.Join(root, LockFileName)

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open watcher lock in %s: %w", root, err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, ErrLocked
	}

	// owner PID, for finding a stale watcher
	writeOwner(f)

	return f, nil
}

// Unlock releases the watcher lock; the lock file stays in the root
func Unlock(f *os.File) {
	if f != nil {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}
}
