package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rdbo/libmem-build/internal/platform"
)

// runLocal runs the build procedure on the host, behind the platform's
// toolchain setup script. The script receives the architecture and the
// trailing command; it puts the right compiler and linker on the path, then
// delegates.
func runLocal(ctx context.Context, p platform.Platform, sourceDir, buildDir, outputDir string) error {
	script := envScript(assetPath("scripts"), p)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("toolchain setup script %s: %w", script, err)
	}

	self, err := os.Executable()
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/c", script, string(p.Arch), self, "exec")
	} else {
		cmd = exec.CommandContext(ctx, script, string(p.Arch), self, "exec")
	}
	cmd.Env = append(os.Environ(), bindings(p, sourceDir, buildDir, outputDir)...)
	if err := runPassthrough(cmd); err != nil {
		return fmt.Errorf("local build for %s: %w", p, err)
	}
	return nil
}

// envScript names the setup script for the platform's toolchain family
// inside scriptsDir, e.g. scripts/windows-msvc.bat.
func envScript(scriptsDir string, p platform.Platform) string {
	ext := ".sh"
	if runtime.GOOS == "windows" {
		ext = ".bat"
	}
	return filepath.Join(scriptsDir, p.EnvName()+ext)
}
