//go:build windows

package executor

// currentIDs is unreachable on Windows: only the linux family selects the
// containerized strategy. It exists so the package compiles everywhere.
func currentIDs() (uid, gid int) {
	return 0, 0
}
