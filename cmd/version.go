package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "1.0.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the waterhabit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("waterhabit", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
