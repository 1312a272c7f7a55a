package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dochub/internal/usecase"
)

var (
	ingestSlug   string
	ingestTitle  string
	ingestTier   string
	ingestOwner  string
	ingestTags   []string
	ingestParent string
	ingestOrder  int
	ingestHidden bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest one document revision",
	Long: `Ingest a markdown file as a document revision. The slug identifies
the document across revisions; re-ingesting a slug replaces its content
and metadata while keeping its place in the backlink graph.

Parent, order, and hidden are only changed when their flag is given.

Examples:
  dochub ingest guide.md --slug deployment-guide --tier developer
  dochub ingest guide.md --slug deployment-guide --tier developer --hidden=true`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSlug, "slug", "", "document slug (required)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (default: first heading)")
	ingestCmd.Flags().StringVar(&ingestTier, "tier", "", "access tier: public, developer, architect, admin (required)")
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "", "owning team or person")
	ingestCmd.Flags().StringSliceVar(&ingestTags, "tags", nil, "tags (comma separated)")
	ingestCmd.Flags().StringVar(&ingestParent, "parent", "", "parent document slug")
	ingestCmd.Flags().IntVar(&ingestOrder, "order", 0, "sibling sort order")
	ingestCmd.Flags().BoolVar(&ingestHidden, "hidden", false, "hide from listings")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	body, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	title := ingestTitle
	if title == "" {
		title = usecase.TitleFromBody(string(body), args[0])
	}

	req := usecase.IngestRequest{
		Token:      cfg.ServiceToken(),
		Slug:       ingestSlug,
		Title:      title,
		Body:       string(body),
		AccessTier: ingestTier,
		Owner:      ingestOwner,
		Tags:       ingestTags,
	}
	if cmd.Flags().Changed("parent") {
		req.ParentSlug = &ingestParent
	}
	if cmd.Flags().Changed("order") {
		req.Order = &ingestOrder
	}
	if cmd.Flags().Changed("hidden") {
		req.Hidden = &ingestHidden
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.ingestor.Ingest(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %s (blob %s)\n", result.Slug, result.BlobKey)
	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings:\n  %s\n", strings.Join(result.Warnings, "\n  "))
	}
	return nil
}
