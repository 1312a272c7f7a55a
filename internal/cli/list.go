package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listTier string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accessible documents",
	Long: `List the non-hidden documents visible at the given access tier,
ordered by sort order and slug. Without --tier only public documents
are listed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listTier, "tier", "", "access tier (default public)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	docs, err := svc.query.List(cmd.Context(), listTier)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents.")
		return nil
	}
	for _, doc := range docs {
		line := fmt.Sprintf("%s  %s  [%s]", doc.Slug, doc.Title, doc.AccessTier)
		if len(doc.Backlinks) > 0 {
			line += fmt.Sprintf("  <- %s", strings.Join(doc.Backlinks, ", "))
		}
		fmt.Println(line)
	}
	return nil
}
