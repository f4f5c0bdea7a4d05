package cmd

import (
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wfbeam",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wfbeam v%s\n", version.Version)
		fmt.Println("W-Beam Inspection Sketch Tool")
		fmt.Printf("Build: %s (commit %s)\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
