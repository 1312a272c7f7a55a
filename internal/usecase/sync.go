package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"dochub/internal/adapter/fs"
)

// Syncer bulk-ingests a documentation tree: every matched file becomes
// one ingestion through the regular pipeline. Per-file failures are
// collected, not fatal, so one broken file never blocks the rest of the
// tree.
type Syncer struct {
	ingestor *Ingestor
	walker   *fs.Walker
	log      zerolog.Logger
}

func NewSyncer(ingestor *Ingestor, walker *fs.Walker, log zerolog.Logger) *Syncer {
	return &Syncer{ingestor: ingestor, walker: walker, log: log}
}

// SyncRequest applies one credential and one set of shared metadata to
// every file under Dir.
type SyncRequest struct {
	Token      string
	Dir        string
	AccessTier string
	Owner      string
	Tags       []string
}

type SyncResult struct {
	Ingested int
	Failed   int
	Warnings int
	Errors   []string
}

// Sync walks req.Dir and ingests each matched file. progress, if
// non-nil, is called after each file.
func (s *Syncer) Sync(ctx context.Context, req SyncRequest, progress func(done, total int)) (*SyncResult, error) {
	entries, err := s.walker.Walk(req.Dir)
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", req.Dir, err)
	}

	result := &SyncResult{}
	for i, entry := range entries {
		body, err := os.ReadFile(entry.Path)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.RelPath, err))
			continue
		}

		slug := SlugFromPath(entry.RelPath)
		res, err := s.ingestor.Ingest(ctx, IngestRequest{
			Token:      req.Token,
			Slug:       slug,
			Title:      TitleFromBody(string(body), entry.RelPath),
			Body:       string(body),
			AccessTier: req.AccessTier,
			Owner:      req.Owner,
			Tags:       req.Tags,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.RelPath, err))
			s.log.Warn().Err(err).Str("path", entry.RelPath).Msg("sync ingestion failed")
		} else {
			result.Ingested++
			result.Warnings += len(res.Warnings)
		}

		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	return result, nil
}

// SlugFromPath turns a slash-separated relative path into a slug by
// stripping the file extension.
func SlugFromPath(relPath string) string {
	ext := filepath.Ext(relPath)
	return strings.TrimSuffix(relPath, ext)
}

// TitleFromBody returns the first markdown heading, or the file name
// without extension when there is none.
func TitleFromBody(body, relPath string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
