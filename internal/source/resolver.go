package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdbo/libmem-build/internal/env"
)

// FetchFunc materializes the given tag of a repository into destDir.
// The default is git; tests inject their own.
type FetchFunc func(ctx context.Context, repoURL, tag, destDir string) error

// Resolver turns a Spec into a source directory plus a version label.
type Resolver struct {
	Dirs    *env.Dirs
	RepoURL string    // defaults to DefaultRepoURL
	Fetch   FetchFunc // defaults to GitFetch
}

// Resolve returns the source directory and version label for spec.
//
// Local paths resolve to their absolute form with label "local" and are
// never cached. Tags resolve through the cache: an existing entry is reused
// without network access; otherwise the tag is fetched into a hidden
// staging directory inside the cache root and renamed into place in one
// step. Staging next to the entry keeps the rename on one filesystem, so it
// stays atomic and an interrupted fetch never leaves a partial entry.
func (r *Resolver) Resolve(ctx context.Context, spec Spec) (dir, label string, err error) {
	if spec.Dir != "" {
		abs, err := filepath.Abs(spec.Dir)
		if err != nil {
			return "", "", err
		}
		return abs, LocalVersion, nil
	}

	label = sanitizeTag(spec.Tag)

	cacheRoot, err := r.Dirs.CacheRoot()
	if err != nil {
		return "", "", err
	}
	entry := filepath.Join(cacheRoot, cachePrefix+label)
	if _, err := os.Stat(entry); err == nil {
		return entry, label, nil
	}

	staging, err := os.MkdirTemp(cacheRoot, ".fetch-*")
	if err != nil {
		return "", "", err
	}

	repoURL := r.RepoURL
	if repoURL == "" {
		repoURL = DefaultRepoURL
	}
	fetch := r.Fetch
	if fetch == nil {
		fetch = GitFetch
	}
	if err := fetch(ctx, repoURL, spec.Tag, staging); err != nil {
		os.RemoveAll(staging)
		return "", "", fmt.Errorf("fetch %s: %w", spec.Tag, err)
	}

	if err := os.Rename(staging, entry); err != nil {
		os.RemoveAll(staging)
		// A concurrent run may have won the rename; its entry is complete.
		if _, statErr := os.Stat(entry); statErr == nil {
			return entry, label, nil
		}
		return "", "", err
	}
	return entry, label, nil
}

// sanitizeTag replaces path separators so a tag can never escape the cache
// root when used as a directory name.
func sanitizeTag(tag string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(tag)
}
