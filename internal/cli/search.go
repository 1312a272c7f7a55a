package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchTier string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents",
	Long: `Search the index for documents visible at the given access tier.
Without --tier only public documents are searched.

Examples:
  dochub search "retry policy"
  dochub search "deployment" --tier developer`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTier, "tier", "", "access tier (default public)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.query.Search(cmd.Context(), strings.Join(args, " "), searchTier)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, hit := range hits {
		fmt.Printf("%2d. %s (%s) [%.3f]\n", i+1, hit.Title, hit.Slug, hit.Score)
		if hit.Preview != "" {
			fmt.Printf("    %s\n", hit.Preview)
		}
		if len(hit.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(hit.Tags, ", "))
		}
	}
	return nil
}
