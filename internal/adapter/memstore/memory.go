// Package memstore provides in-memory backends for tests and
// single-shot tooling that does not need persistence.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dochub/internal/domain"
)

// DocumentStore is an in-memory document repository.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]domain.Document)}
}

func (s *DocumentStore) Upsert(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Slug] = doc
	return nil
}

func (s *DocumentStore) FindBySlug(ctx context.Context, slug string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[slug]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *DocumentStore) ListAccessible(ctx context.Context, maxTier domain.AccessTier) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, d := range s.docs {
		if d.Hidden || !maxTier.Satisfies(d.AccessTier) {
			continue
		}
		docs = append(docs, d)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Order != docs[j].Order {
			return docs[i].Order < docs[j].Order
		}
		return docs[i].Slug < docs[j].Slug
	})
	return docs, nil
}

func (s *DocumentStore) ListAll(ctx context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })
	return docs, nil
}

func (s *DocumentStore) MutateBacklinks(ctx context.Context, source string, removed, added []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slug := range removed {
		d, ok := s.docs[slug]
		if !ok {
			continue
		}
		d.Backlinks = removeString(d.Backlinks, source)
		s.docs[slug] = d
	}
	for _, slug := range added {
		d, ok := s.docs[slug]
		if !ok {
			continue
		}
		d.Backlinks = addString(d.Backlinks, source)
		s.docs[slug] = d
	}
	return nil
}

func (s *DocumentStore) ReplaceBacklinks(ctx context.Context, backlinks map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slug, d := range s.docs {
		d.Backlinks = backlinks[slug]
		s.docs[slug] = d
	}
	return nil
}

func (s *DocumentStore) Close() error { return nil }

func addString(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func removeString(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BlobStore is an in-memory blob backend.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: blob %q", domain.ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (s *BlobStore) Close() error { return nil }

// Indexer is an in-memory search index with naive substring matching.
// It implements the same contract as the persistent index but makes no
// attempt at ranking quality.
type Indexer struct {
	mu    sync.RWMutex
	docs  map[string]domain.SearchDocument
	limit int
}

func NewIndexer() *Indexer {
	return &Indexer{docs: make(map[string]domain.SearchDocument), limit: 20}
}

func (ix *Indexer) Index(ctx context.Context, doc domain.SearchDocument) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.docs[doc.Slug] = doc
	return nil
}

func (ix *Indexer) Remove(ctx context.Context, slug string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.docs, slug)
	return nil
}

func (ix *Indexer) Search(ctx context.Context, query string, maxTier domain.AccessTier) ([]domain.SearchHit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	q := strings.ToLower(query)
	var hits []domain.SearchHit
	for _, d := range ix.docs {
		if !maxTier.Satisfies(domain.AccessTier(d.AccessTier)) {
			continue
		}
		text := strings.ToLower(d.Title + " " + d.Preview + " " + strings.Join(d.Tags, " "))
		if !strings.Contains(text, q) {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Slug:    d.Slug,
			Title:   d.Title,
			Tags:    d.Tags,
			Preview: d.Preview,
			Score:   1,
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Slug < hits[j].Slug })
	if len(hits) > ix.limit {
		hits = hits[:ix.limit]
	}
	return hits, nil
}

func (ix *Indexer) Close() error { return nil }

// SchemaStore is an in-memory schema repository.
type SchemaStore struct {
	mu      sync.RWMutex
	schemas map[string]domain.Schema
}

func NewSchemaStore() *SchemaStore {
	return &SchemaStore{schemas: make(map[string]domain.Schema)}
}

func (s *SchemaStore) Upsert(ctx context.Context, schema domain.Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[schema.Name] = schema
	return nil
}

func (s *SchemaStore) FindByName(ctx context.Context, name string) (*domain.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schemas[name]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (s *SchemaStore) ListAll(ctx context.Context) ([]domain.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]domain.Schema, 0, len(s.schemas))
	for _, sc := range s.schemas {
		schemas = append(schemas, sc)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, nil
}
