package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the intraday CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("intraday version %s\n", version)
		fmt.Println("An intraday equity trading simulator and research platform")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
