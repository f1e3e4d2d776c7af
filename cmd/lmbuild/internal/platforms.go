package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdbo/libmem-build/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the supported target platforms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range platform.All() {
			if p.Unsupported() {
				fmt.Printf("%s\t(not supported upstream yet)\n", p)
				continue
			}
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
