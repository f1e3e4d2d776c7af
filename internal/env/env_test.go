package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheRootDefault(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	d := New("")
	got, err := d.CacheRoot()
	if err != nil {
		t.Fatalf("CacheRoot() returned error: %v", err)
	}

	want := filepath.Join(wd, DefaultCacheDir)
	if resolved, err := filepath.EvalSymlinks(got); err == nil {
		got = resolved
	}
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	if got != want {
		t.Errorf("CacheRoot() = %q, want %q", got, want)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("cache root was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("cache root is not a directory")
	}
}

func TestCacheRootOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom-cache")

	d := New(override)
	got, err := d.CacheRoot()
	if err != nil {
		t.Fatalf("CacheRoot() returned error: %v", err)
	}
	if got != override {
		t.Errorf("CacheRoot() = %q, want %q", got, override)
	}
	if _, err := os.Stat(override); err != nil {
		t.Errorf("override directory was not created: %v", err)
	}
}

// TestCacheRootIdempotent verifies that repeated calls within one process
// resolve to the same directory without side effects.
func TestCacheRootIdempotent(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "cache"))

	dir1, err := d.CacheRoot()
	if err != nil {
		t.Fatalf("first CacheRoot() call failed: %v", err)
	}
	dir2, err := d.CacheRoot()
	if err != nil {
		t.Fatalf("second CacheRoot() call failed: %v", err)
	}
	if dir1 != dir2 {
		t.Errorf("CacheRoot() not idempotent: %q then %q", dir1, dir2)
	}
}

func TestTempRootIdempotentAndCleanedUp(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "cache"))

	dir1, err := d.TempRoot()
	if err != nil {
		t.Fatalf("TempRoot() returned error: %v", err)
	}
	dir2, err := d.TempRoot()
	if err != nil {
		t.Fatalf("second TempRoot() call failed: %v", err)
	}
	if dir1 != dir2 {
		t.Errorf("TempRoot() not idempotent: %q then %q", dir1, dir2)
	}
	if _, err := os.Stat(dir1); err != nil {
		t.Fatalf("temp root does not exist: %v", err)
	}

	d.Cleanup()
	if _, err := os.Stat(dir1); !os.IsNotExist(err) {
		t.Errorf("temp root still exists after Cleanup: %v", err)
	}

	// Second Cleanup is a no-op.
	d.Cleanup()
}

func TestCleanupWithoutTempIsNoop(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "cache"))
	d.Cleanup()
}

func TestTempRootsDistinctAcrossHandles(t *testing.T) {
	d1 := New("")
	d2 := New("")
	t.Cleanup(func() { d1.Cleanup(); d2.Cleanup() })

	dir1, err := d1.TempRoot()
	if err != nil {
		t.Fatal(err)
	}
	dir2, err := d2.TempRoot()
	if err != nil {
		t.Fatal(err)
	}
	if dir1 == dir2 {
		t.Errorf("two handles share one temp root: %q", dir1)
	}
}
