package internal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rdbo/libmem-build/internal/archive"
	"github.com/rdbo/libmem-build/internal/env"
	"github.com/rdbo/libmem-build/internal/executor"
	"github.com/rdbo/libmem-build/internal/platform"
	"github.com/rdbo/libmem-build/internal/source"
)

// Recognized environment overrides.
const (
	envOut    = "LMBUILD_OUT"     // replaces the default output directory
	envCache  = "LMBUILD_CACHE"   // replaces the default cache directory
	envNoPack = "LMBUILD_NO_PACK" // when set, skip the final archive
)

var buildCmd = &cobra.Command{
	Use:   "build <platform> <path|version>",
	Short: "Build a prebuilt libmem distribution for a platform",
	Long: `Build compiles libmem for the given target platform from a local source
directory or a remote version tag, and packages the result.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}
	if err := platform.Check(p, promptConfirm); err != nil {
		return err
	}

	spec, err := source.ParseSpec(args[1])
	if err != nil {
		return err
	}

	dirs := env.New(os.Getenv(envCache))
	dirs.HandleSignals()
	defer dirs.Cleanup()

	ctx := cmd.Context()
	resolver := &source.Resolver{Dirs: dirs}
	sourceDir, version, err := resolver.Resolve(ctx, spec)
	if err != nil {
		return err
	}

	outputDir, err := outputDirFor(p, version)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "lmbuild: building libmem %s for %s\n", version, p)
	if err := executor.Run(ctx, dirs, p, sourceDir, outputDir); err != nil {
		return err
	}

	if os.Getenv(envNoPack) != "" {
		fmt.Println(outputDir)
		return nil
	}
	dest, err := archive.Create(outputDir)
	if err != nil {
		return fmt.Errorf("archive %s: %w", outputDir, err)
	}
	fmt.Println(dest)
	return nil
}

// outputDirFor resolves the output directory, default or overridden. A
// pre-existing directory is rejected either way: stale artifacts from a
// failed run must be discarded by the caller, never silently layered over.
func outputDirFor(p platform.Platform, version string) (string, error) {
	dir := os.Getenv(envOut)
	if dir == "" {
		dir = filepath.Join("out", fmt.Sprintf("libmem-%s-%s", version, p))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err == nil {
		return "", fmt.Errorf("output directory %s already exists; remove it and retry", abs)
	} else if !os.IsNotExist(err) {
		return "", err
	}
	return abs, nil
}

// promptConfirm asks the operator whether to proceed with a known-unsupported
// platform. Anything but an interactive terminal and an affirmative answer
// means no.
func promptConfirm(p platform.Platform) bool {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	fmt.Fprintf(os.Stderr, "platform %s is known not to build upstream yet; continue anyway? [y/N] ", p)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
