package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Offline maintenance of derived state",
}

var rebuildBacklinksCmd = &cobra.Command{
	Use:   "backlinks",
	Short: "Recompute the backlink graph from stored outgoing links",
	Long: `Recompute every document's backlink set from scratch and replace the
stored sets. This repairs links that were dangling at ingestion time,
such as a link ingested before its target existed.`,
	Args: cobra.NoArgs,
	RunE: runRebuildBacklinks,
}

var rebuildSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rebuild every search surrogate from stored content",
	Args:  cobra.NoArgs,
	RunE:  runRebuildSearch,
}

func init() {
	rebuildCmd.AddCommand(rebuildBacklinksCmd)
	rebuildCmd.AddCommand(rebuildSearchCmd)
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuildBacklinks(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	count, err := svc.rebuilder.RebuildBacklinks(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Rebuilt backlinks across %d documents\n", count)
	return nil
}

func runRebuildSearch(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "reindexing")
		}
		bar.Set(done)
	}

	count, err := svc.rebuilder.ReindexSearch(cmd.Context(), progress)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	fmt.Printf("Reindexed %d documents\n", count)
	return nil
}
