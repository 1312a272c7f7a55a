package port

import (
	"context"

	"dochub/internal/domain"
)

// DocumentRepository is the metadata store for documents, keyed by slug.
type DocumentRepository interface {
	// Upsert creates the document or fully replaces the existing one
	// with the same slug. The replace is atomic per document.
	Upsert(ctx context.Context, doc domain.Document) error

	// FindBySlug returns the document, or (nil, nil) when no document
	// with that slug exists.
	FindBySlug(ctx context.Context, slug string) (*domain.Document, error)

	// ListAccessible returns non-hidden documents whose access tier is
	// at most maxTier, sorted by (order, slug).
	ListAccessible(ctx context.Context, maxTier domain.AccessTier) ([]domain.Document, error)

	// ListAll returns every document, hidden ones included. Used by the
	// offline rebuild operations.
	ListAll(ctx context.Context) ([]domain.Document, error)

	// MutateBacklinks removes source from the backlink sets of the
	// removed targets and adds it to those of the added targets.
	// Targets that do not exist are silently skipped. Each target's
	// mutation is an atomic set operation, safe under concurrent
	// ingestions that share a target.
	MutateBacklinks(ctx context.Context, source string, removed, added []string) error

	// ReplaceBacklinks overwrites the backlink set of every stored
	// document: documents present in the map get the given set, all
	// others get an empty set.
	ReplaceBacklinks(ctx context.Context, backlinks map[string][]string) error

	Close() error
}

// SchemaRepository is the metadata store for registered API schemas.
type SchemaRepository interface {
	Upsert(ctx context.Context, schema domain.Schema) error

	// FindByName returns the schema, or (nil, nil) when absent.
	FindByName(ctx context.Context, name string) (*domain.Schema, error)

	ListAll(ctx context.Context) ([]domain.Schema, error)
}
