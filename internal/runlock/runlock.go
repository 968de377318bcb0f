// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlock enforces one batch run at a time per root. The converter
// writes artifacts into the scanned tree, so two concurrent runs over the
// same root would race each other into double conversions. The lock file
// lives under the user cache directory, never inside the scanned tree.
package runlock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Acquire takes an exclusive lock for the given root path. The caller must
// defer Release. It fails when another run already holds the lock.
func Acquire(root string) (*flock.Flock, error) {
	path, err := lockPath(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another xapkbatch run is already processing %s", root)
	}
	return fl, nil
}

// Release unlocks the run lock. Safe to call with nil.
func Release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}

// lockPath derives a stable lock file location from the absolute root path.
func lockPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	sum := sha256.Sum256([]byte(abs))
	name := fmt.Sprintf("%x.lock", sum[:8])
	return filepath.Join(cacheDir, "xapkbatch", name), nil
}
