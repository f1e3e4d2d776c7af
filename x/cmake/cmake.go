// Package cmake wraps the cmake configure/build workflow.
package cmake

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake drives a single configure/build tree.
type CMake struct {
	sourceDir string
	buildDir  string
	generator string
	buildType string
	parallel  int
	defines   map[string]defineValue

	// Stdout and Stderr receive cmake's output. They default to the
	// process's own streams; the underlying tool's diagnostics are never
	// suppressed or wrapped.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a ready-to-use CMake for the given source and build trees.
func New(sourceDir, buildDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   make(map[string]defineValue),
	}
}

// Generator sets the CMake generator (e.g. "Unix Makefiles", "NMake Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Parallel sets the worker count passed to the build invocation.
func (c *CMake) Parallel(n int) { c.parallel = n }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
func (c *CMake) Configure(ctx context.Context) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run(ctx, c.configureArgs())
}

// Build runs "cmake --build <build>" with the configured parallelism.
func (c *CMake) Build(ctx context.Context) error {
	return c.run(ctx, c.buildArgs())
}

func (c *CMake) configureArgs() []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	return append(args, c.definesArgs()...)
}

func (c *CMake) buildArgs() []string {
	args := []string{"--build", c.buildDir}
	if c.parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(c.parallel))
	}
	return args
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}
