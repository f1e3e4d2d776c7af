package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lmbuild",
	Short: "lmbuild produces prebuilt libmem distributions",
	Long:  `lmbuild builds reproducible prebuilt binary distributions of libmem for the supported target platforms.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
