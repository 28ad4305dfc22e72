//go:build windows

package aggregator

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// TryLock claims root for a single watcher by locking <root>/.foldertxt.lock.
// It returns ErrLocked at once if another watcher owns the root.
func TryLock(root string) (*os.File, error) {
	lockPath := filepath.Join(root, LockFileName)

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open watcher lock in %s: %w", root, err)
	}

	// LOCKFILE_FAIL_IMMEDIATELY is the LOCK_NB equivalent
	handle := windows.Handle(f.Fd())
	overlapped := &windows.Overlapped{}
	err = windows.LockFileEx(
		handle,
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1,
		0,
		overlapped,
	)
	if err != nil {
		f.Close()
		return nil, ErrLocked
	}

	writeOwner(f)

	return f, nil
}

// Unlock releases the watcher lock; the lock file stays in the root
func Unlock(f *os.File) {
	if f != nil {
		handle := windows.Handle(f.Fd())
		overlapped := &windows.Overlapped{}
		// Close releases the lock anyway
		windows.UnlockFileEx(handle, 0, 1, 0, overlapped)
		f.Close()
	}
}
