package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"dochub/internal/domain"
)

var (
	bucketDocuments = []byte("documents")
	bucketSchemas   = []byte("schemas")
)

// BoltStore is the metadata repository for documents and schemas,
// backed by a single bbolt database. bbolt serializes writers, so every
// Update callback below is atomic with respect to all other writes:
// a document upsert is a full atomic replace, and a backlink mutation
// never races another ingestion's mutation of the same target.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open metadata db: %v", domain.ErrStorage, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocuments, bucketSchemas} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Upsert(ctx context.Context, doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: encode document %q: %v", domain.ErrInternal, doc.Slug, err)
		}
		if err := tx.Bucket(bucketDocuments).Put([]byte(doc.Slug), data); err != nil {
			return fmt.Errorf("%w: put document %q: %v", domain.ErrStorage, doc.Slug, err)
		}
		return nil
	})
}

func (s *BoltStore) FindBySlug(ctx context.Context, slug string) (*domain.Document, error) {
	var doc *domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocuments).Get([]byte(slug))
		if data == nil {
			return nil
		}
		var d domain.Document
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("%w: decode document %q: %v", domain.ErrInternal, slug, err)
		}
		doc = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *BoltStore) ListAccessible(ctx context.Context, maxTier domain.AccessTier) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var d domain.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("%w: decode document %q: %v", domain.ErrInternal, k, err)
			}
			if d.Hidden || !maxTier.Satisfies(d.AccessTier) {
				return nil
			}
			docs = append(docs, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Order != docs[j].Order {
			return docs[i].Order < docs[j].Order
		}
		return docs[i].Slug < docs[j].Slug
	})
	return docs, nil
}

func (s *BoltStore) ListAll(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var d domain.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("%w: decode document %q: %v", domain.ErrInternal, k, err)
			}
			docs = append(docs, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// MutateBacklinks applies the backlink delta for one source document.
// The whole delta runs in a single write transaction: per-target updates
// are targeted set operations on the stored document, and targets that
// do not exist yet are skipped without error.
func (s *BoltStore) MutateBacklinks(ctx context.Context, source string, removed, added []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)

		for _, slug := range removed {
			if err := mutateTarget(b, slug, func(d *domain.Document) {
				d.Backlinks = removeString(d.Backlinks, source)
			}); err != nil {
				return err
			}
		}
		for _, slug := range added {
			if err := mutateTarget(b, slug, func(d *domain.Document) {
				d.Backlinks = addString(d.Backlinks, source)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func mutateTarget(b *bbolt.Bucket, slug string, mutate func(*domain.Document)) error {
	data := b.Get([]byte(slug))
	if data == nil {
		// Link to a not-yet-ingested document: nothing to update.
		return nil
	}
	var d domain.Document
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: decode document %q: %v", domain.ErrInternal, slug, err)
	}
	mutate(&d)
	out, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: encode document %q: %v", domain.ErrInternal, slug, err)
	}
	if err := b.Put([]byte(slug), out); err != nil {
		return fmt.Errorf("%w: put document %q: %v", domain.ErrStorage, slug, err)
	}
	return nil
}

func (s *BoltStore) ReplaceBacklinks(ctx context.Context, backlinks map[string][]string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)

		// Decode everything first: writing while iterating a bucket is
		// undefined in bbolt.
		var docs []domain.Document
		if err := b.ForEach(func(k, v []byte) error {
			var d domain.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("%w: decode document %q: %v", domain.ErrInternal, k, err)
			}
			docs = append(docs, d)
			return nil
		}); err != nil {
			return err
		}

		for _, d := range docs {
			d.Backlinks = backlinks[d.Slug]
			out, err := json.Marshal(d)
			if err != nil {
				return fmt.Errorf("%w: encode document %q: %v", domain.ErrInternal, d.Slug, err)
			}
			if err := b.Put([]byte(d.Slug), out); err != nil {
				return fmt.Errorf("%w: put document %q: %v", domain.ErrStorage, d.Slug, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// addString appends s if absent, preserving insertion order.
func addString(set []string, s string) []string {
	for _, v := range set {
		if v == s {
			return set
		}
	}
	return append(set, s)
}

// removeString drops every occurrence of s. Removing an absent element
// is a no-op.
func removeString(set []string, s string) []string {
	out := set[:0]
	for _, v := range set {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
