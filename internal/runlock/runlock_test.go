// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlock

import (
	"strings"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	root := t.TempDir()

	fl, err := Acquire(root)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	Release(fl)

	// Re-acquire after release must succeed.
	fl, err = Acquire(root)
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	Release(fl)
}

func TestAcquireRefusesSecondHolder(t *testing.T) {
	root := t.TempDir()

	fl, err := Acquire(root)
	if err != nil {
		t.Fatal(err)
	}
	defer Release(fl)

	if _, err := Acquire(root); err == nil {
		t.Fatal("second Acquire on the same root should fail")
	} else if !strings.Contains(err.Error(), root) {
		t.Errorf("error should name the contested root, got: %v", err)
	}
}

func TestDistinctRootsDoNotContend(t *testing.T) {
	first, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer Release(first)

	second, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("locks for distinct roots should not contend: %v", err)
	}
	Release(second)
}

func TestReleaseNil(t *testing.T) {
	Release(nil) // must not panic
}

func TestLockPathStable(t *testing.T) {
	root := t.TempDir()

	a, err := lockPath(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := lockPath(root)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("lock path not stable: %q vs %q", a, b)
	}
	if !strings.HasSuffix(a, ".lock") {
		t.Errorf("lock path should end in .lock, got %q", a)
	}
}
