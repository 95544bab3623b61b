package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wizard "github.com/marcosfrias28/brymar-sub012"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wizard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wizard version %s\n", strings.TrimSpace(wizard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
