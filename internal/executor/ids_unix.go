//go:build !windows

package executor

import "golang.org/x/sys/unix"

// currentIDs returns the invoking user's numeric uid and gid, forwarded into
// the container so artifacts are not left root-owned.
func currentIDs() (uid, gid int) {
	return unix.Getuid(), unix.Getgid()
}
