package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wizard "github.com/marcosfrias28/brymar-sub012"
	"github.com/marcosfrias28/brymar-sub012/internal/presentation/graph"
	yamlcfg "github.com/marcosfrias28/brymar-sub012/pkg/adapters/yaml"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the wizard flow as a Mermaid diagram",
	Long: `Reads a YAML wizard configuration and outputs a Mermaid diagram
(graph TD) of its step sequence. With --draft, the diagram is overlaid
with the draft's progress: completed steps and the current step are
highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			configPath = args[0]
		}

		config, err := yamlcfg.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if draftID, _ := cmd.Flags().GetString("draft"); draftID != "" {
			userID, _ := cmd.Flags().GetString("user")

			eng, err := buildEngine(cmd)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			session, err := eng.NewSession(config, wizard.ForUser(userID))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			defer session.Close()

			loaded, err := session.LoadDraft(cmd.Context(), draftID)
			if err != nil {
				fmt.Printf("Error loading draft: %v\n", err)
				os.Exit(1)
			}
			if !loaded {
				fmt.Printf("Error: draft %q not found or expired\n", draftID)
				os.Exit(1)
			}

			state := session.State()
			overlay = &graph.Overlay{CurrentStep: state.CurrentStepID}
			for stepID, done := range state.StepProgress {
				if done {
					overlay.CompletedSteps = append(overlay.CompletedSteps, stepID)
				}
			}
		}

		fmt.Print(graph.GenerateMermaid(config, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("draft", "", "Overlay progress from an existing draft")
	graphCmd.Flags().StringP("user", "u", "", "User ID owning the draft")
}
