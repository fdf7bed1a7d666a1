package cmd

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrTargetLocked is returned when another run is already organizing the
// same target directory.
var ErrTargetLocked = errors.New("target is locked by another run")

// lockPath maps a target directory to a lock file in the temp dir, so the
// target itself stays free of bookkeeping files.
func lockPath(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("photos-manager-%08x.lock", crc32.ChecksumIEEE([]byte(abs)))
	return filepath.Join(os.TempDir(), name), nil
}

// lockTarget takes an exclusive, non-blocking lock on target. The returned
// func releases it.
func lockTarget(target string) (func() error, error) {
	path, err := lockPath(target)
	if err != nil {
		return nil, fmt.Errorf("resolve lock path: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetLocked, path)
	}
	return lock.Unlock, nil
}
