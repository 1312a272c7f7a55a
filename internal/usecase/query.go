package usecase

import (
	"context"
	"fmt"

	"dochub/internal/domain"
	"dochub/internal/metrics"
	"dochub/internal/port"
)

// Query serves the read side: tier-filtered search and listing.
// Queries are unauthenticated; access is narrowed by tier instead, and
// an empty tier means the public view.
type Query struct {
	repo    port.DocumentRepository
	indexer port.Indexer // nil when search is not configured
	metrics *metrics.Metrics
}

func NewQuery(repo port.DocumentRepository, indexer port.Indexer, m *metrics.Metrics) *Query {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Query{repo: repo, indexer: indexer, metrics: m}
}

// Search runs a tier-filtered full-text query. An empty tierText
// defaults to the public view; a non-empty unknown tier is rejected
// rather than silently narrowed.
func (q *Query) Search(ctx context.Context, query, tierText string) ([]domain.SearchHit, error) {
	tier, err := resolveTier(tierText)
	if err != nil {
		return nil, err
	}
	if q.indexer == nil {
		return nil, fmt.Errorf("%w: search is not configured", domain.ErrInternal)
	}

	hits, err := q.indexer.Search(ctx, query, tier)
	if err != nil {
		return nil, err
	}

	q.metrics.SearchQueries.Inc()
	q.metrics.SearchHits.Add(float64(len(hits)))
	return hits, nil
}

// List returns the non-hidden documents visible at the given tier,
// ordered by (order, slug).
func (q *Query) List(ctx context.Context, tierText string) ([]domain.Document, error) {
	tier, err := resolveTier(tierText)
	if err != nil {
		return nil, err
	}
	return q.repo.ListAccessible(ctx, tier)
}

// Get returns one document's metadata, or ErrNotFound.
func (q *Query) Get(ctx context.Context, slug string) (*domain.Document, error) {
	doc, err := q.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %q", domain.ErrNotFound, slug)
	}
	return doc, nil
}

func resolveTier(tierText string) (domain.AccessTier, error) {
	if tierText == "" {
		return domain.TierPublic, nil
	}
	return domain.ParseAccessTier(tierText)
}
