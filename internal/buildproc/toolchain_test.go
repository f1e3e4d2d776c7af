package buildproc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rdbo/libmem-build/internal/platform"
)

func TestParseGlibcVersion(t *testing.T) {
	v, err := parseGlibcVersion("glibc 2.36\n")
	if err != nil {
		t.Fatalf("parseGlibcVersion: %v", err)
	}
	if v != "2.36" {
		t.Errorf("parseGlibcVersion = %q, want %q", v, "2.36")
	}

	if _, err := parseGlibcVersion("garbage"); err == nil {
		t.Error("parseGlibcVersion accepted malformed output")
	}
}

func TestParseMuslVersion(t *testing.T) {
	out := "musl-1.2.4-r2 description:\nthe musl c library\n"
	v, err := parseMuslVersion(out)
	if err != nil {
		t.Fatalf("parseMuslVersion: %v", err)
	}
	if v != "1.2.4-r2" {
		t.Errorf("parseMuslVersion = %q, want %q", v, "1.2.4-r2")
	}

	if _, err := parseMuslVersion("glibc-2.36 description:"); err == nil {
		t.Error("parseMuslVersion accepted non-musl output")
	}
}

func TestWriteToolchainMetadataMSVC(t *testing.T) {
	t.Setenv("VCToolsVersion", "14.38.33130")
	t.Setenv("WindowsSDKVersion", `10.0.22621.0\`)

	out := t.TempDir()
	e := Env{
		Platform:  platform.Platform{Family: platform.Windows, Toolchain: platform.MSVC, Arch: platform.X86_64},
		OutputDir: out,
	}
	if err := writeToolchainMetadata(context.Background(), e); err != nil {
		t.Fatalf("writeToolchainMetadata: %v", err)
	}

	msvc, err := os.ReadFile(filepath.Join(out, MSVCVersionFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(msvc) != "14.38.33130\n" {
		t.Errorf("%s = %q", MSVCVersionFile, msvc)
	}

	sdk, err := os.ReadFile(filepath.Join(out, WinSDKVersionFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(sdk) != "10.0.22621.0\n" {
		t.Errorf("%s = %q, want trailing separator stripped", WinSDKVersionFile, sdk)
	}
}

func TestWriteToolchainMetadataMSVCMissingEnv(t *testing.T) {
	t.Setenv("VCToolsVersion", "")
	t.Setenv("WindowsSDKVersion", "")

	e := Env{
		Platform:  platform.Platform{Family: platform.Windows, Toolchain: platform.MSVC, Arch: platform.X86_64},
		OutputDir: t.TempDir(),
	}
	err := writeToolchainMetadata(context.Background(), e)
	if err == nil {
		t.Fatal("writeToolchainMetadata succeeded without toolchain environment")
	}
	if !strings.Contains(err.Error(), "VCToolsVersion") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestWriteVersionFileSingleLine(t *testing.T) {
	dir := t.TempDir()
	if err := writeVersionFile(dir, GlibcVersionFile, "2.36"); err != nil {
		t.Fatalf("writeVersionFile: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, GlibcVersionFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2.36\n" {
		t.Errorf("version file = %q, want single line", data)
	}
}
