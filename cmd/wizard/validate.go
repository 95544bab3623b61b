package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	yamlcfg "github.com/marcosfrias28/brymar-sub012/pkg/adapters/yaml"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a wizard configuration for consistency",
	Long: `Loads a YAML wizard configuration and reports problems: unknown
listing kinds, duplicate or missing steps, bad field types, invalid
patterns, and half-specified cross-field rules.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			configPath = args[0]
		}

		config, err := yamlcfg.Load(configPath)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		required := 0
		for _, step := range config.Steps {
			if step.Schema != nil {
				required += len(step.Schema.RequiredFields())
			}
		}
		fmt.Printf("Config is valid! ✅ (%s, %d steps, %d required fields)\n",
			config.Kind, len(config.Steps), required)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
