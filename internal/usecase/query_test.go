package usecase

import (
	"context"
	"errors"
	"testing"

	"dochub/internal/adapter/memstore"
	"dochub/internal/domain"
)

func seedSearchable(t *testing.T, repo *memstore.DocumentStore, indexer *memstore.Indexer) {
	t.Helper()
	ctx := context.Background()

	docs := []struct {
		slug   string
		tier   domain.AccessTier
		hidden bool
	}{
		{"public-guide", domain.TierPublic, false},
		{"dev-runbook", domain.TierDeveloper, false},
		{"admin-keys", domain.TierAdmin, false},
		{"hidden-draft", domain.TierPublic, true},
	}
	for _, d := range docs {
		doc := domain.Document{
			Slug:       d.slug,
			Title:      "guide " + d.slug,
			AccessTier: d.tier,
			Hidden:     d.hidden,
		}
		if err := repo.Upsert(ctx, doc); err != nil {
			t.Fatal(err)
		}
		if err := indexer.Index(ctx, domain.SearchDocument{
			Slug:       d.slug,
			Title:      "guide " + d.slug,
			AccessTier: int(d.tier),
		}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSearch_EmptyTierDefaultsToPublic(t *testing.T) {
	repo := memstore.NewDocumentStore()
	indexer := memstore.NewIndexer()
	seedSearchable(t, repo, indexer)
	q := NewQuery(repo, indexer, nil)

	hits, err := q.Search(context.Background(), "guide", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, hit := range hits {
		if hit.Slug != "public-guide" && hit.Slug != "hidden-draft" {
			t.Errorf("non-public hit %q leaked into public search", hit.Slug)
		}
	}
}

func TestSearch_TierWidensResults(t *testing.T) {
	repo := memstore.NewDocumentStore()
	indexer := memstore.NewIndexer()
	seedSearchable(t, repo, indexer)
	q := NewQuery(repo, indexer, nil)

	hits, err := q.Search(context.Background(), "guide", "developer")
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, hit := range hits {
		found[hit.Slug] = true
	}
	if !found["dev-runbook"] {
		t.Error("developer search missing developer document")
	}
	if found["admin-keys"] {
		t.Error("developer search leaked an admin document")
	}
}

func TestSearch_InvalidTier(t *testing.T) {
	q := NewQuery(memstore.NewDocumentStore(), memstore.NewIndexer(), nil)

	_, err := q.Search(context.Background(), "guide", "root")
	if !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("Search() error = %v, want ErrInvalid", err)
	}
}

func TestSearch_NoIndexerConfigured(t *testing.T) {
	q := NewQuery(memstore.NewDocumentStore(), nil, nil)

	_, err := q.Search(context.Background(), "guide", "public")
	if !errors.Is(err, domain.ErrInternal) {
		t.Errorf("Search() error = %v, want ErrInternal", err)
	}
}

func TestList_FiltersHiddenAndTier(t *testing.T) {
	repo := memstore.NewDocumentStore()
	indexer := memstore.NewIndexer()
	seedSearchable(t, repo, indexer)
	q := NewQuery(repo, indexer, nil)

	docs, err := q.List(context.Background(), "developer")
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range docs {
		if d.Hidden {
			t.Errorf("hidden document %q listed", d.Slug)
		}
		if d.AccessTier > domain.TierDeveloper {
			t.Errorf("document %q above requested tier listed", d.Slug)
		}
	}
	if len(docs) != 2 {
		t.Errorf("List() returned %d documents, want 2", len(docs))
	}
}

func TestGet_NotFound(t *testing.T) {
	q := NewQuery(memstore.NewDocumentStore(), nil, nil)

	_, err := q.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
