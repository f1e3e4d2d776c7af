package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rdbo/libmem-build/internal/platform"
)

// Mount points inside the build container.
const (
	containerSourceDir = "/libmem/src"
	containerBuildDir  = "/libmem/build"
	containerOutputDir = "/libmem/out"
	containerSelfPath  = "/usr/local/bin/lmbuild"
)

// runContainer builds the image for the platform and runs the build
// procedure inside it. The image is always (re)built; the engine's layer
// cache makes that a cheap no-op when nothing changed.
func runContainer(ctx context.Context, p platform.Platform, sourceDir, buildDir, outputDir string) error {
	tag := imageTag(p)

	build := exec.CommandContext(ctx, "docker", buildImageArgs(p, tag, assetPath("docker"))...)
	if err := runPassthrough(build); err != nil {
		return fmt.Errorf("build image %s: %w", tag, err)
	}

	self, err := os.Executable()
	if err != nil {
		return err
	}
	run := exec.CommandContext(ctx, "docker", runContainerArgs(p, tag, self, sourceDir, buildDir, outputDir)...)
	if err := runPassthrough(run); err != nil {
		return fmt.Errorf("containerized build for %s: %w", p, err)
	}
	return nil
}

// imageTag derives the image name from the toolchain and architecture.
func imageTag(p platform.Platform) string {
	return fmt.Sprintf("libmem-build:%s-%s", p.Toolchain, p.Arch)
}

// dockerPlatform maps an Arch to the engine's platform syntax.
func dockerPlatform(a platform.Arch) string {
	switch a {
	case platform.AArch64:
		return "linux/arm64"
	default:
		return "linux/amd64"
	}
}

// dockerfile picks the image definition by toolchain family.
func dockerfile(contextDir string, p platform.Platform) string {
	return filepath.Join(contextDir, "Dockerfile."+string(p.Toolchain))
}

func buildImageArgs(p platform.Platform, tag, contextDir string) []string {
	return []string{
		"build",
		"--platform", dockerPlatform(p.Arch),
		"-f", dockerfile(contextDir, p),
		"-t", tag,
		contextDir,
	}
}

func runContainerArgs(p platform.Platform, tag, self, sourceDir, buildDir, outputDir string) []string {
	uid, gid := currentIDs()
	args := []string{
		"run", "--rm",
		"--name", containerName(p),
		"--platform", dockerPlatform(p.Arch),
		// Artifacts must come out owned by the invoking user, not root.
		"--user", fmt.Sprintf("%d:%d", uid, gid),
		"-v", sourceDir + ":" + containerSourceDir + ":ro",
		"-v", buildDir + ":" + containerBuildDir,
		"-v", outputDir + ":" + containerOutputDir,
		"-v", self + ":" + containerSelfPath + ":ro",
	}
	for _, kv := range bindings(p, containerSourceDir, containerBuildDir, containerOutputDir) {
		args = append(args, "-e", kv)
	}
	return append(args, tag, "lmbuild", "exec")
}

func containerName(p platform.Platform) string {
	return "libmem-build-" + p.String() + "-" + uuid.NewString()[:8]
}
