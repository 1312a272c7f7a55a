package usecase

import (
	"context"
	"reflect"
	"testing"

	"dochub/internal/adapter/memstore"
	"dochub/internal/domain"
)

func seedDocs(t *testing.T, repo *memstore.DocumentStore, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		if err := repo.Upsert(context.Background(), domain.Document{Slug: slug}); err != nil {
			t.Fatal(err)
		}
	}
}

func backlinksOf(t *testing.T, repo *memstore.DocumentStore, slug string) []string {
	t.Helper()
	doc, err := repo.FindBySlug(context.Background(), slug)
	if err != nil || doc == nil {
		t.Fatalf("document %q missing: %v", slug, err)
	}
	return doc.Backlinks
}

func TestReconcile_AddsAndRemoves(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	seedDocs(t, repo, "alpha", "beta", "gamma")
	r := NewBacklinkReconciler(repo)

	if err := r.Reconcile(ctx, "source", nil, []string{"alpha", "beta"}); err != nil {
		t.Fatal(err)
	}
	if got := backlinksOf(t, repo, "alpha"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("alpha backlinks = %v", got)
	}
	if got := backlinksOf(t, repo, "beta"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("beta backlinks = %v", got)
	}

	// Links change from {alpha, beta} to {beta, gamma}.
	if err := r.Reconcile(ctx, "source", []string{"alpha", "beta"}, []string{"beta", "gamma"}); err != nil {
		t.Fatal(err)
	}
	if got := backlinksOf(t, repo, "alpha"); len(got) != 0 {
		t.Errorf("alpha backlinks = %v, want empty", got)
	}
	if got := backlinksOf(t, repo, "beta"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("beta backlinks = %v, want unchanged", got)
	}
	if got := backlinksOf(t, repo, "gamma"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("gamma backlinks = %v", got)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	seedDocs(t, repo, "alpha")
	r := NewBacklinkReconciler(repo)

	for i := 0; i < 3; i++ {
		if err := r.Reconcile(ctx, "source", nil, []string{"alpha"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := backlinksOf(t, repo, "alpha"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("alpha backlinks = %v, want exactly [source]", got)
	}
}

func TestReconcile_MissingTargetSkipped(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	seedDocs(t, repo, "alpha")
	r := NewBacklinkReconciler(repo)

	if err := r.Reconcile(ctx, "source", nil, []string{"alpha", "ghost"}); err != nil {
		t.Fatalf("Reconcile() error on missing target: %v", err)
	}
	if got := backlinksOf(t, repo, "alpha"); !reflect.DeepEqual(got, []string{"source"}) {
		t.Errorf("alpha backlinks = %v", got)
	}
	if doc, _ := repo.FindBySlug(ctx, "ghost"); doc != nil {
		t.Error("missing target was created")
	}
}

func TestReconcile_NoChange(t *testing.T) {
	repo := memstore.NewDocumentStore()
	seedDocs(t, repo, "alpha")
	r := NewBacklinkReconciler(repo)

	links := []string{"alpha"}
	if err := r.Reconcile(context.Background(), "source", links, links); err != nil {
		t.Fatal(err)
	}
	if got := backlinksOf(t, repo, "alpha"); len(got) != 0 {
		t.Errorf("alpha backlinks = %v, want untouched", got)
	}
}

func TestDifference(t *testing.T) {
	tests := []struct {
		a, b, want []string
	}{
		{[]string{"x", "y", "z"}, []string{"y"}, []string{"x", "z"}},
		{[]string{"x"}, []string{"x"}, nil},
		{nil, []string{"x"}, nil},
		{[]string{"x", "y"}, nil, []string{"x", "y"}},
	}
	for _, tt := range tests {
		if got := difference(tt.a, tt.b); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("difference(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
