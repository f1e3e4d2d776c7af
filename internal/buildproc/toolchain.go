package buildproc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rdbo/libmem-build/internal/platform"
)

// Toolchain metadata file names, one set per platform family.
const (
	GlibcVersionFile  = "GLIBC_VERSION.txt"
	MuslVersionFile   = "MUSL_VERSION.txt"
	MSVCVersionFile   = "MSVC_VERSION.txt"
	WinSDKVersionFile = "WINSDK_VERSION.txt"
)

// writeToolchainMetadata records the runtime/toolchain version the artifacts
// were built against, queried from the active toolchain.
func writeToolchainMetadata(ctx context.Context, e Env) error {
	switch e.Platform.Toolchain {
	case platform.GNU:
		v, err := glibcVersion(ctx)
		if err != nil {
			return err
		}
		return writeVersionFile(e.OutputDir, GlibcVersionFile, v)
	case platform.Musl:
		v, err := muslVersion(ctx)
		if err != nil {
			return err
		}
		return writeVersionFile(e.OutputDir, MuslVersionFile, v)
	case platform.MSVC:
		msvc, err := requiredEnv("VCToolsVersion")
		if err != nil {
			return err
		}
		if err := writeVersionFile(e.OutputDir, MSVCVersionFile, msvc); err != nil {
			return err
		}
		sdk, err := requiredEnv("WindowsSDKVersion")
		if err != nil {
			return err
		}
		return writeVersionFile(e.OutputDir, WinSDKVersionFile, strings.TrimSuffix(sdk, `\`))
	}
	return fmt.Errorf("no toolchain metadata for %s", e.Platform)
}

// glibcVersion queries the C library version, e.g. "2.36".
func glibcVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "getconf", "GNU_LIBC_VERSION").Output()
	if err != nil {
		return "", fmt.Errorf("getconf GNU_LIBC_VERSION: %w", err)
	}
	return parseGlibcVersion(string(out))
}

// parseGlibcVersion extracts the version from getconf output ("glibc 2.36").
func parseGlibcVersion(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected GNU_LIBC_VERSION output %q", strings.TrimSpace(out))
	}
	return fields[len(fields)-1], nil
}

// muslVersion queries the installed musl package version, e.g. "1.2.4-r2".
func muslVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "apk", "info", "musl").Output()
	if err != nil {
		return "", fmt.Errorf("apk info musl: %w", err)
	}
	return parseMuslVersion(string(out))
}

// parseMuslVersion extracts the version from the first line of apk output
// ("musl-1.2.4-r2 description: ...").
func parseMuslVersion(out string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	pkg, _, _ := strings.Cut(line, " ")
	version, ok := strings.CutPrefix(pkg, "musl-")
	if !ok || version == "" {
		return "", fmt.Errorf("unexpected apk info output %q", line)
	}
	return version, nil
}

func requiredEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("environment variable %s is not set; run inside the toolchain environment", name)
	}
	return v, nil
}

func writeVersionFile(outputDir, name, version string) error {
	return os.WriteFile(filepath.Join(outputDir, name), []byte(version+"\n"), 0o644)
}
