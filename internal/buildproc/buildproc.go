// Package buildproc is the build procedure both execution strategies run.
// It is parameterized solely by four environment bindings, so the packaging
// policy is identical inside a container and on a host toolchain.
package buildproc

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rdbo/libmem-build/internal/platform"
	"github.com/rdbo/libmem-build/x/cmake"
)

// The four required environment bindings.
const (
	EnvPlatform  = "LMBUILD_PLATFORM"
	EnvSourceDir = "LMBUILD_SOURCE_DIR"
	EnvBuildDir  = "LMBUILD_BUILD_DIR"
	EnvOutputDir = "LMBUILD_OUTPUT_DIR"
)

// Env carries the decoded bindings of one build invocation.
type Env struct {
	Platform  platform.Platform
	SourceDir string
	BuildDir  string
	OutputDir string
}

// EnvFromProcess decodes the four bindings from the process environment.
// Every binding is required.
func EnvFromProcess() (Env, error) {
	var e Env
	for _, v := range []struct {
		name string
		dst  *string
	}{
		{EnvSourceDir, &e.SourceDir},
		{EnvBuildDir, &e.BuildDir},
		{EnvOutputDir, &e.OutputDir},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			return Env{}, fmt.Errorf("missing environment binding %s", v.name)
		}
	}
	id := os.Getenv(EnvPlatform)
	if id == "" {
		return Env{}, fmt.Errorf("missing environment binding %s", EnvPlatform)
	}
	p, err := platform.Parse(id)
	if err != nil {
		return Env{}, err
	}
	e.Platform = p
	return e, nil
}

// Variant selects shared- or static-library production.
type Variant string

const (
	Shared Variant = "shared"
	Static Variant = "static"
)

// step is one named stage of the build recipe. The recipe is an ordered
// list of steps executed by a single interpreter; there is no per-strategy
// variation.
type step struct {
	name string
	run  func(context.Context, Env) error
}

func steps() []step {
	return []step{
		{"build shared variant", func(ctx context.Context, e Env) error { return buildVariant(ctx, e, Shared) }},
		{"build static variant", func(ctx context.Context, e Env) error { return buildVariant(ctx, e, Static) }},
		{"harvest libraries", harvestLibraries},
		{"harvest headers", harvestHeaders},
		{"harvest licenses", harvestLicenses},
		{"write toolchain metadata", writeToolchainMetadata},
	}
}

// Run executes the build recipe. Both library variants are built to
// completion before any output is harvested; the first failing step aborts
// the whole procedure.
func Run(ctx context.Context, e Env) error {
	for _, s := range steps() {
		fmt.Fprintf(os.Stderr, "lmbuild: %s\n", s.name)
		if err := s.run(ctx, e); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// buildVariant configures and builds one variant into its own sub-tree.
func buildVariant(ctx context.Context, e Env, v Variant) error {
	c := cmake.New(e.SourceDir, variantDir(e, v))
	c.Generator(generatorFor(e.Platform))
	c.BuildType("Release")
	c.Parallel(runtime.NumCPU())
	c.DefineBool("LIBMEM_BUILD_TESTS", false)
	c.DefineBool("LIBMEM_BUILD_STATIC", v == Static)
	if flags := archFlags(e.Platform); flags != "" {
		c.Define("CMAKE_C_FLAGS", flags)
		c.Define("CMAKE_CXX_FLAGS", flags)
	}
	if err := c.Configure(ctx); err != nil {
		return fmt.Errorf("configure %s: %w", v, err)
	}
	if err := c.Build(ctx); err != nil {
		return fmt.Errorf("build %s: %w", v, err)
	}
	return nil
}

// generatorFor picks a native-makefile generator for the platform.
func generatorFor(p platform.Platform) string {
	if p.Toolchain == platform.MSVC {
		return "NMake Makefiles"
	}
	return "Unix Makefiles"
}

// archFlags returns the compiler flags pinning the architecture baseline.
// MSVC targets use the toolchain's own defaults.
func archFlags(p platform.Platform) string {
	if p.Toolchain == platform.MSVC {
		return ""
	}
	switch p.Arch {
	case platform.X86_64:
		return "-march=x86-64"
	case platform.AArch64:
		return "-march=armv8-a"
	}
	return ""
}
