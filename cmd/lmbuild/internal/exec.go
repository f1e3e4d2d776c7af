package internal

import (
	"github.com/spf13/cobra"

	"github.com/rdbo/libmem-build/internal/buildproc"
)

// execCmd is the entry point both execution strategies hand off to: inside
// the build container, or after a local toolchain setup script. It reads the
// four environment bindings and runs the build procedure.
var execCmd = &cobra.Command{
	Use:    "exec",
	Short:  "Run the build procedure from environment bindings",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildproc.EnvFromProcess()
		if err != nil {
			return err
		}
		return buildproc.Run(cmd.Context(), e)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
