package port

import (
	"context"

	"dochub/internal/domain"
)

// Indexer is the search backend. It is an optional collaborator: the
// ingestion pipeline treats it as best-effort and must work without it.
type Indexer interface {
	// Index adds or fully replaces the surrogate for its slug.
	Index(ctx context.Context, doc domain.SearchDocument) error

	// Remove deletes the surrogate. Removing an unknown slug is not an
	// error.
	Remove(ctx context.Context, slug string) error

	// Search returns hits visible at or below maxTier, best first.
	Search(ctx context.Context, query string, maxTier domain.AccessTier) ([]domain.SearchHit, error)

	Close() error
}
