// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates directories under a root and classifies leaves.
// The enumeration is a one-shot snapshot: classification happens against
// the state captured during the single traversal pass, never against the
// live filesystem.
package scan

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshot holds the result of one traversal pass: every readable
// directory under the root, in lexical traversal order.
type Snapshot struct {
	dirs       []string
	subdirs    map[string]int
	unreadable map[string]bool
}

// Take walks the tree rooted at root and records every directory found,
// including root itself. Directories that cannot be enumerated produce a
// warning on warn and are excluded from classification; an unreadable
// root is fatal.
func Take(root string, warn io.Writer) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	snap := &Snapshot{
		subdirs:    make(map[string]int),
		unreadable: make(map[string]bool),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// WalkDir reports an enumeration failure by revisiting the
			// directory with the error set. Root failures abort the run;
			// anything deeper is skipped with a warning.
			if path == root {
				return fmt.Errorf("reading root %s: %w", root, err)
			}
			fmt.Fprintf(warn, "warning: skipping %s: %v\n", path, err)
			snap.unreadable[path] = true
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		snap.dirs = append(snap.dirs, path)
		if path != root {
			snap.subdirs[filepath.Dir(path)]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// Dirs returns every directory in the snapshot, in traversal order.
func (s *Snapshot) Dirs() []string {
	return s.dirs
}

// Leaves returns the directories with zero subdirectories at snapshot
// time, in traversal order. Directories whose contents could not be
// enumerated are excluded: their subdirectory count is unknown.
func (s *Snapshot) Leaves() []string {
	var leaves []string
	for _, d := range s.dirs {
		if s.subdirs[d] == 0 && !s.unreadable[d] {
			leaves = append(leaves, d)
		}
	}
	return leaves
}

// HasMarker reports whether any file directly inside dir has the given
// extension (e.g. ".xapk"). Subdirectory contents are not considered.
func HasMarker(dir, ext string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ext {
			return true, nil
		}
	}
	return false, nil
}
