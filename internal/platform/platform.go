// Package platform defines the set of target platforms lmbuild can produce
// prebuilt distributions for, and validates requested platform identifiers.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Family is the operating-system family of a target platform.
type Family string

// Toolchain is the libc or compiler toolchain of a target platform.
type Toolchain string

// Arch is the CPU architecture of a target platform.
type Arch string

const (
	Linux   Family = "linux"
	Windows Family = "windows"

	GNU  Toolchain = "gnu"
	Musl Toolchain = "musl"
	MSVC Toolchain = "msvc"

	X86_64  Arch = "x86_64"
	AArch64 Arch = "aarch64"
)

// Platform identifies a build target as an (os family, toolchain, arch)
// triple. It is decoded once from the dashed identifier at the CLI boundary;
// everything downstream switches on the typed fields.
type Platform struct {
	Family    Family
	Toolchain Toolchain
	Arch      Arch
}

// String returns the dashed identifier, e.g. "linux-gnu-x86_64".
func (p Platform) String() string {
	return string(p.Family) + "-" + string(p.Toolchain) + "-" + string(p.Arch)
}

// EnvName returns the identifier minus the architecture suffix,
// e.g. "windows-msvc". Local toolchain setup scripts are named after it.
func (p Platform) EnvName() string {
	return string(p.Family) + "-" + string(p.Toolchain)
}

// all is the fixed set of supported platforms, in listing order.
var all = []Platform{
	{Linux, GNU, X86_64},
	{Linux, GNU, AArch64},
	{Linux, Musl, X86_64},
	{Linux, Musl, AArch64},
	{Windows, MSVC, X86_64},
	{Windows, MSVC, AArch64},
}

// All returns the supported platforms in a stable order.
func All() []Platform {
	out := make([]Platform, len(all))
	copy(out, all)
	return out
}

// ErrRefused is returned by Check when a known-unsupported combination is
// not confirmed.
var ErrRefused = errors.New("build refused")

// Parse validates a dashed platform identifier against the supported set.
// It has no side effects; unknown identifiers are rejected by name.
func Parse(id string) (Platform, error) {
	for _, p := range all {
		if p.String() == id {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unknown platform %q (supported: %s)", id, strings.Join(Names(), ", "))
}

// Names returns the identifiers of all supported platforms.
func Names() []string {
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return names
}

// Unsupported reports whether the platform is in the supported set but known
// to be broken upstream. musl on aarch64 does not build yet.
func (p Platform) Unsupported() bool {
	return p.Toolchain == Musl && p.Arch == AArch64
}

// ConfirmFunc decides whether to proceed with a known-unsupported platform.
type ConfirmFunc func(Platform) bool

// RefuseAll is the default confirmation policy: never proceed. It is what
// non-interactive contexts get.
func RefuseAll(Platform) bool { return false }

// Check gates known-unsupported combinations behind the given confirmation
// policy. A nil confirm behaves like RefuseAll. Supported platforms pass
// without consulting the policy.
func Check(p Platform, confirm ConfirmFunc) error {
	if !p.Unsupported() {
		return nil
	}
	if confirm == nil {
		confirm = RefuseAll
	}
	if !confirm(p) {
		return fmt.Errorf("platform %s is not supported upstream yet: %w", p, ErrRefused)
	}
	return nil
}
