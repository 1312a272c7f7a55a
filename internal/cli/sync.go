package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dochub/internal/adapter/fs"
	"dochub/internal/usecase"
)

var (
	syncTier  string
	syncOwner string
	syncTags  []string
)

var syncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Bulk-ingest a documentation tree",
	Long: `Walk a directory tree and ingest every matched markdown file.
Slugs are derived from the relative path, titles from the first heading.
File selection follows the sync.includes/sync.excludes config globs.

Examples:
  dochub sync ./docs --tier public --owner platform-team
  dochub sync . --tier developer --tags runbook,infra`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncTier, "tier", "", "access tier for every file (required)")
	syncCmd.Flags().StringVar(&syncOwner, "owner", "", "owning team or person")
	syncCmd.Flags().StringSliceVar(&syncTags, "tags", nil, "tags applied to every file")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	path := rootDir
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	walker := fs.NewWalker(cfg.Sync.Includes, cfg.Sync.Excludes)
	syncer := usecase.NewSyncer(svc.ingestor, walker, log)

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "syncing")
		}
		bar.Set(done)
	}

	result, err := syncer.Sync(cmd.Context(), usecase.SyncRequest{
		Token:      cfg.ServiceToken(),
		Dir:        path,
		AccessTier: syncTier,
		Owner:      syncOwner,
		Tags:       syncTags,
	}, progress)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Printf("Ingested %d, failed %d, warnings %d\n", result.Ingested, result.Failed, result.Warnings)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}
