package buildproc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdbo/libmem-build/internal/platform"
)

// libFile names one library artifact to collect: where it lands in a
// variant's build tree and what the distributed file is called. The build
// tool's default name is not always the distributed one; the static archive
// is produced as a "partial" library and renamed here.
type libFile struct {
	variant Variant
	rel     string // path within the variant's build directory
	name    string // name under lib/
}

// libFiles is the fixed per-toolchain set of artifacts: the main library in
// both variants plus the three bundled static dependencies.
func libFiles(tc platform.Toolchain) []libFile {
	if tc == platform.MSVC {
		return []libFile{
			{Shared, "libmem.dll", "libmem.dll"},
			{Shared, "libmem.lib", "libmem.lib"},
			{Static, "libmem_partial.lib", "libmem_static.lib"},
			{Static, filepath.Join("external", "capstone", "capstone.lib"), "capstone.lib"},
			{Static, filepath.Join("external", "keystone", "llvm", "lib", "keystone.lib"), "keystone.lib"},
			{Static, filepath.Join("external", "llvm", "lib", "llvm.lib"), "llvm.lib"},
		}
	}
	return []libFile{
		{Shared, "liblibmem.so", "liblibmem.so"},
		{Static, "liblibmem_partial.a", "liblibmem.a"},
		{Static, filepath.Join("external", "capstone", "libcapstone.a"), "libcapstone.a"},
		{Static, filepath.Join("external", "keystone", "llvm", "lib", "libkeystone.a"), "libkeystone.a"},
		{Static, filepath.Join("external", "llvm", "lib", "libllvm.a"), "libllvm.a"},
	}
}

// licenseDeps maps each licensed component to the directory scanned for its
// license files, relative to the source root. "" is the library itself.
var licenseDeps = []struct {
	name string
	rel  string
}{
	{"libmem", ""},
	{"capstone", filepath.Join("external", "capstone")},
	{"keystone", filepath.Join("external", "keystone")},
	{"llvm", filepath.Join("external", "llvm")},
}

func variantDir(e Env, v Variant) string {
	return filepath.Join(e.BuildDir, string(v))
}

func harvestLibraries(ctx context.Context, e Env) error {
	libDir := filepath.Join(e.OutputDir, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return err
	}
	for _, lf := range libFiles(e.Platform.Toolchain) {
		src := filepath.Join(variantDir(e, lf.variant), lf.rel)
		if err := copyFile(src, filepath.Join(libDir, lf.name)); err != nil {
			return fmt.Errorf("collect %s: %w", lf.name, err)
		}
	}
	return nil
}

func harvestHeaders(ctx context.Context, e Env) error {
	src := filepath.Join(e.SourceDir, "include")
	dst := filepath.Join(e.OutputDir, "include")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	return os.CopyFS(dst, os.DirFS(src))
}

func harvestLicenses(ctx context.Context, e Env) error {
	licenseDir := filepath.Join(e.OutputDir, "licenses")
	if err := os.MkdirAll(licenseDir, 0o755); err != nil {
		return err
	}
	for _, dep := range licenseDeps {
		dir := filepath.Join(e.SourceDir, dep.rel)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("scan %s licenses: %w", dep.name, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isLicenseName(entry.Name()) {
				continue
			}
			dst := filepath.Join(licenseDir, licenseFileName(dep.name, entry.Name()))
			if err := copyFile(filepath.Join(dir, entry.Name()), dst); err != nil {
				return fmt.Errorf("collect %s license: %w", dep.name, err)
			}
		}
	}
	return nil
}

// isLicenseName matches license/copying/exception files, case-insensitively.
func isLicenseName(name string) bool {
	l := strings.ToLower(name)
	return strings.HasPrefix(l, "license") ||
		strings.HasPrefix(l, "copying") ||
		strings.HasPrefix(l, "exception")
}

// licenseFileName normalizes a harvested license to
// "<dep>-<basename-lowercased-without-extension>.txt".
func licenseFileName(dep, base string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return dep + "-" + strings.ToLower(stem) + ".txt"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
