package usecase

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"dochub/internal/adapter/memstore"
	"dochub/internal/domain"
	"dochub/internal/logger"
)

func TestRebuildBacklinks(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()

	docs := []domain.Document{
		{Slug: "alpha", LinksOut: []string{"beta", "gamma"}},
		{Slug: "beta", LinksOut: []string{"gamma"}},
		{Slug: "gamma", Backlinks: []string{"stale-entry"}},
	}
	for _, d := range docs {
		if err := repo.Upsert(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	rb := NewRebuilder(repo, memstore.NewBlobStore(), nil, logger.Nop())
	count, err := rb.RebuildBacklinks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("RebuildBacklinks() count = %d, want 3", count)
	}

	gamma, _ := repo.FindBySlug(ctx, "gamma")
	got := append([]string(nil), gamma.Backlinks...)
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("gamma.Backlinks = %v, want [alpha beta]", gamma.Backlinks)
	}

	beta, _ := repo.FindBySlug(ctx, "beta")
	if !reflect.DeepEqual(beta.Backlinks, []string{"alpha"}) {
		t.Errorf("beta.Backlinks = %v, want [alpha]", beta.Backlinks)
	}

	alpha, _ := repo.FindBySlug(ctx, "alpha")
	if len(alpha.Backlinks) != 0 {
		t.Errorf("alpha.Backlinks = %v, want empty", alpha.Backlinks)
	}
}

func TestRebuildBacklinks_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	if err := repo.Upsert(ctx, domain.Document{Slug: "alpha", LinksOut: []string{"beta"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Upsert(ctx, domain.Document{Slug: "beta"}); err != nil {
		t.Fatal(err)
	}

	rb := NewRebuilder(repo, memstore.NewBlobStore(), nil, logger.Nop())
	for i := 0; i < 2; i++ {
		if _, err := rb.RebuildBacklinks(ctx); err != nil {
			t.Fatal(err)
		}
	}

	beta, _ := repo.FindBySlug(ctx, "beta")
	if !reflect.DeepEqual(beta.Backlinks, []string{"alpha"}) {
		t.Errorf("beta.Backlinks = %v, want exactly [alpha]", beta.Backlinks)
	}
}

func TestReindexSearch(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	blobs := memstore.NewBlobStore()
	indexer := memstore.NewIndexer()

	ing := newTestIngestor(repo, blobs, nil) // ingested without an index
	if _, err := ing.Ingest(ctx, validRequest("guide", "# Retry policy")); err != nil {
		t.Fatal(err)
	}

	rb := NewRebuilder(repo, blobs, indexer, logger.Nop())
	var calls int
	count, err := rb.ReindexSearch(ctx, func(done, total int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 || calls != 1 {
		t.Errorf("ReindexSearch() count = %d, progress calls = %d", count, calls)
	}

	hits, err := indexer.Search(ctx, "retry", domain.TierDeveloper)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Slug != "guide" {
		t.Errorf("hits = %v, want the reindexed document", hits)
	}
}

func TestReindexSearch_SkipsMissingBlob(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	if err := repo.Upsert(ctx, domain.Document{Slug: "orphan", BlobKey: "docs/orphan.md"}); err != nil {
		t.Fatal(err)
	}

	rb := NewRebuilder(repo, memstore.NewBlobStore(), memstore.NewIndexer(), logger.Nop())
	count, err := rb.ReindexSearch(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("ReindexSearch() count = %d, want 0", count)
	}
}

func TestReindexSearch_NoIndexer(t *testing.T) {
	rb := NewRebuilder(memstore.NewDocumentStore(), memstore.NewBlobStore(), nil, logger.Nop())

	_, err := rb.ReindexSearch(context.Background(), nil)
	if !errors.Is(err, domain.ErrInternal) {
		t.Errorf("ReindexSearch() error = %v, want ErrInternal", err)
	}
}
