// Package runlock keeps two organizer runs from working on the same root at
// the same time.
//
// Locks are advisory flock(2) locks on a file named after a hash of the
// root's absolute path, kept in a directory outside the root so the cleanup
// pass never sees them.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process or run already holds the lock.
var ErrHeld = errors.New("root is locked by another run")

// Lock is a held run lock. The zero value and nil are valid no-op locks.
type Lock struct {
	path string
	fl   *flock.Flock
}

// PathFor returns the lock file path used for root inside lockDir.
func PathFor(lockDir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the lock for root without blocking. An empty lockDir disables
// locking and returns a no-op lock.
func Acquire(lockDir, root string) (*Lock, error) {
	if lockDir == "" {
		return &Lock{}, nil
	}
	path, err := PathFor(lockDir, root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrHeld, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path, or "" for a no-op lock.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the lock. It is safe to call on a nil or no-op lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
