package executor

import (
	"os"
	"path/filepath"
)

// assetPath locates a directory shipped alongside the binary, such as
// docker/ or scripts/. The executable's own directory is preferred so
// lmbuild works from any working directory; when the asset is not there
// (go run, tests), the path falls back to the working directory.
func assetPath(rel string) string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), rel)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return rel
}
