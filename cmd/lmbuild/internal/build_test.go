package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rdbo/libmem-build/internal/platform"
)

var testPlatform = platform.Platform{Family: platform.Linux, Toolchain: platform.GNU, Arch: platform.X86_64}

func TestOutputDirForDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(envOut, "")

	dir, err := outputDirFor(testPlatform, "4.2.1")
	if err != nil {
		t.Fatalf("outputDirFor: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("output dir %q is not absolute", dir)
	}
	want := filepath.Join("out", "libmem-4.2.1-linux-gnu-x86_64")
	if got := filepath.Join(filepath.Base(filepath.Dir(dir)), filepath.Base(dir)); got != want {
		t.Errorf("output dir tail = %q, want %q", got, want)
	}
}

func TestOutputDirForRejectsExistingDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(envOut, "")

	existing := filepath.Join("out", "libmem-4.2.1-linux-gnu-x86_64")
	if err := os.MkdirAll(existing, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := outputDirFor(testPlatform, "4.2.1"); err == nil {
		t.Error("outputDirFor reused a pre-existing default output directory")
	}
}

func TestOutputDirForOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "dist")
	t.Setenv(envOut, override)

	dir, err := outputDirFor(testPlatform, "local")
	if err != nil {
		t.Fatalf("outputDirFor: %v", err)
	}
	if dir != override {
		t.Errorf("outputDirFor = %q, want override %q", dir, override)
	}
}

func TestOutputDirForRejectsExistingOverride(t *testing.T) {
	override := t.TempDir() // exists already
	t.Setenv(envOut, override)

	if _, err := outputDirFor(testPlatform, "local"); err == nil {
		t.Error("outputDirFor accepted a pre-existing overridden output directory")
	}
}
