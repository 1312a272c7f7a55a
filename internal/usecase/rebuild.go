package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dochub/internal/domain"
	"dochub/internal/port"
)

// Rebuilder provides the offline maintenance operations: recomputing
// the backlink graph from scratch and re-populating the search index.
// Both are idempotent and safe to run while the portal is idle.
type Rebuilder struct {
	repo    port.DocumentRepository
	blobs   port.BlobStore
	indexer port.Indexer
	log     zerolog.Logger
}

func NewRebuilder(repo port.DocumentRepository, blobs port.BlobStore, indexer port.Indexer, log zerolog.Logger) *Rebuilder {
	return &Rebuilder{repo: repo, blobs: blobs, indexer: indexer, log: log}
}

// RebuildBacklinks recomputes every document's backlink set from the
// stored outgoing links and replaces the stored sets wholesale. This
// also repairs links that were dangling at ingestion time: a link to a
// document that did not exist yet becomes a backlink once both sides
// are stored.
func (r *Rebuilder) RebuildBacklinks(ctx context.Context) (int, error) {
	docs, err := r.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	backlinks := make(map[string][]string)
	for _, doc := range docs {
		for _, target := range doc.LinksOut {
			backlinks[target] = appendUnique(backlinks[target], doc.Slug)
		}
	}

	if err := r.repo.ReplaceBacklinks(ctx, backlinks); err != nil {
		return 0, fmt.Errorf("replace backlinks: %w", err)
	}

	r.log.Info().Int("documents", len(docs)).Msg("backlink graph rebuilt")
	return len(docs), nil
}

// ReindexSearch rebuilds every search surrogate from stored metadata
// and blob content. progress, if non-nil, is called after each
// document. Documents whose blob is missing are logged and skipped.
func (r *Rebuilder) ReindexSearch(ctx context.Context, progress func(done, total int)) (int, error) {
	if r.indexer == nil {
		return 0, fmt.Errorf("%w: search is not configured", domain.ErrInternal)
	}

	docs, err := r.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	indexed := 0
	for i, doc := range docs {
		body, err := r.blobs.Get(ctx, doc.BlobKey)
		if err != nil {
			r.log.Warn().Err(err).Str("slug", doc.Slug).Msg("skipping document without content")
			continue
		}
		if err := r.indexer.Index(ctx, BuildSurrogate(doc, string(body))); err != nil {
			return indexed, fmt.Errorf("index %q: %w", doc.Slug, err)
		}
		indexed++
		if progress != nil {
			progress(i+1, len(docs))
		}
	}

	r.log.Info().Int("indexed", indexed).Int("total", len(docs)).Msg("search index rebuilt")
	return indexed, nil
}

func appendUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}
