package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// GitFetch clones exactly one tag, shallow and single-branch, with shallow
// submodules so bundled third-party sources come along. A missing tag is a
// caller error; it propagates without retry.
func GitFetch(ctx context.Context, repoURL, tag, destDir string) error {
	cmd := exec.CommandContext(ctx, "git", "clone",
		"--depth=1",
		"--branch", tag,
		"--single-branch",
		"--recurse-submodules",
		"--shallow-submodules",
		repoURL, destDir)
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0", // Disable interactive prompts
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone: %w\n%s", err, string(output))
	}
	return nil
}
