package aggregator

import (
	"errors"
	"fmt"
	"os"
)

// LockFileName is the single-instance lock held by a watcher in the root.
// Relevant ignores it so taking the lock never triggers a run.
const LockFileName = ".foldertxt.lock"

// ErrLocked is returned by TryLock when another watcher owns the root
var ErrLocked = errors.New("another watcher is already running on this directory")

// writeOwner records the owning watcher's PID in the lock file
func writeOwner(f *os.File) {
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Sync()
}
