// Package source resolves a requested libmem source, either a local checkout
// or a remote version tag, into a materialized directory. Remote tags are
// fetched once into a persistent cache and reused on later runs.
package source

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
)

// DefaultRepoURL is the remote repository tags are fetched from.
const DefaultRepoURL = "https://github.com/rdbo/libmem.git"

// LocalVersion is the source-version label of a local checkout.
const LocalVersion = "local"

// cachePrefix names cache entries: cachePrefix + sanitized tag.
const cachePrefix = "libmem-"

// Spec names what to build: exactly one of Dir (a local source directory)
// or Tag (a remote version tag) is set.
type Spec struct {
	Dir string
	Tag string
}

// ParseSpec classifies a positional source argument. An argument that exists
// as a directory, or that contains a path separator, is a local path;
// anything else must look like a version tag.
func ParseSpec(arg string) (Spec, error) {
	if arg == "" {
		return Spec{}, fmt.Errorf("empty source argument")
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return Spec{Dir: arg}, nil
	}
	if strings.ContainsAny(arg, `/\`) || arg == "." || arg == ".." {
		return Spec{}, fmt.Errorf("source directory %q does not exist", arg)
	}
	if !semver.IsValid("v" + strings.TrimPrefix(arg, "v")) {
		return Spec{}, fmt.Errorf("source %q is neither a directory nor a version tag", arg)
	}
	return Spec{Tag: arg}, nil
}
