// Package env owns the two process-scoped directories every build needs:
// a persistent cache root and a per-process temporary root.
package env

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
)

// DefaultCacheDir is the cache root used when no override is given.
const DefaultCacheDir = "cache"

// Dirs hands out the cache root and the temporary root. Both are resolved
// lazily and at most once; repeated calls return the same paths. A Dirs is
// created by the command layer and passed by reference to everything that
// needs it.
type Dirs struct {
	cache func() (string, error)
	temp  func() (string, error)

	mu      sync.Mutex
	tempDir string // set once the temp root exists, guarded by mu
}

// New returns a Dirs using cacheOverride as the cache root, or
// DefaultCacheDir when empty. Nothing is created until first use.
func New(cacheOverride string) *Dirs {
	d := &Dirs{}
	d.cache = sync.OnceValues(func() (string, error) {
		dir := cacheOverride
		if dir == "" {
			dir = DefaultCacheDir
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", err
		}
		return abs, nil
	})
	d.temp = sync.OnceValues(func() (string, error) {
		dir, err := os.MkdirTemp("", "lmbuild-*")
		if err != nil {
			return "", err
		}
		d.mu.Lock()
		d.tempDir = dir
		d.mu.Unlock()
		return dir, nil
	})
	return d
}

// CacheRoot returns the absolute cache root, creating it if absent.
func (d *Dirs) CacheRoot() (string, error) {
	return d.cache()
}

// TempRoot returns the per-process temporary root, creating it on first use.
// It is removed by Cleanup.
func (d *Dirs) TempRoot() (string, error) {
	return d.temp()
}

// Cleanup removes the temporary root if it was ever created. The cache root
// is left alone; it persists across runs. Safe to call more than once.
func (d *Dirs) Cleanup() {
	d.mu.Lock()
	dir := d.tempDir
	d.tempDir = ""
	d.mu.Unlock()
	if dir != "" {
		os.RemoveAll(dir)
	}
}

// HandleSignals arranges for Cleanup to run on SIGINT or SIGTERM before the
// process exits non-zero. Call once, from the command layer.
func (d *Dirs) HandleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		d.Cleanup()
		os.Exit(1)
	}()
}
