package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect and clean up saved drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live drafts for a user",
	Run: func(cmd *cobra.Command, args []string) {
		kind, userID := draftsScope(cmd)
		eng, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ids, err := eng.ListDrafts(cmd.Context(), kind, userID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Printf("No drafts for %s/%s\n", kind, userID)
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

var draftsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired drafts for a user",
	Run: func(cmd *cobra.Command, args []string) {
		kind, userID := draftsScope(cmd)
		eng, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		purged, err := eng.PurgeExpired(cmd.Context(), kind, userID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Purged %d expired draft(s)\n", purged)
	},
}

func draftsScope(cmd *cobra.Command) (domain.Kind, string) {
	kindStr, _ := cmd.Flags().GetString("kind")
	userID, _ := cmd.Flags().GetString("user")

	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if userID == "" {
		fmt.Println("Error: --user is required")
		os.Exit(1)
	}
	return kind, userID
}

func init() {
	rootCmd.AddCommand(draftsCmd)
	draftsCmd.AddCommand(draftsListCmd, draftsPurgeCmd)

	draftsCmd.PersistentFlags().StringP("kind", "k", "property", "Wizard kind (property, land, blog)")
	draftsCmd.PersistentFlags().StringP("user", "u", "", "User ID")
}
