// Package executor prepares an isolated execution environment for a build
// and runs the build procedure inside it. Linux targets run in a container;
// Windows targets run on the host behind a toolchain setup script. Both
// paths execute the identical procedure ("lmbuild exec"), parameterized
// only by the four environment bindings.
package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rdbo/libmem-build/internal/buildproc"
	"github.com/rdbo/libmem-build/internal/env"
	"github.com/rdbo/libmem-build/internal/platform"
)

// Run builds the library for p from sourceDir into outputDir. The transient
// build tree lives under the temp root and disappears with it.
func Run(ctx context.Context, dirs *env.Dirs, p platform.Platform, sourceDir, outputDir string) error {
	tempRoot, err := dirs.TempRoot()
	if err != nil {
		return err
	}
	buildDir := filepath.Join(tempRoot, "build-"+p.String())
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return err
	}

	switch p.Family {
	case platform.Linux:
		return runContainer(ctx, p, sourceDir, buildDir, outputDir)
	case platform.Windows:
		return runLocal(ctx, p, sourceDir, buildDir, outputDir)
	}
	return fmt.Errorf("no execution strategy for %s", p)
}

// bindings returns the four environment bindings as KEY=value pairs.
func bindings(p platform.Platform, sourceDir, buildDir, outputDir string) []string {
	return []string{
		buildproc.EnvPlatform + "=" + p.String(),
		buildproc.EnvSourceDir + "=" + sourceDir,
		buildproc.EnvBuildDir + "=" + buildDir,
		buildproc.EnvOutputDir + "=" + outputDir,
	}
}

// runPassthrough runs a prepared command with the tool's own output streams
// attached. Diagnostics from docker, cmake and the toolchain scripts reach
// the operator unmodified.
func runPassthrough(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
