package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dochub/internal/adapter/fs"
	"dochub/internal/adapter/memstore"
	"dochub/internal/logger"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestSync_IngestsTree(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewDocumentStore()
	ing := newTestIngestor(repo, memstore.NewBlobStore(), nil)
	syncer := NewSyncer(ing, fs.NewWalker(nil, nil), logger.Nop())

	dir := writeTree(t, map[string]string{
		"guide.md":            "# Deployment Guide\n\nbody",
		"runbooks/oncall.md":  "no heading here",
		"runbooks/notes.txt":  "not markdown",
	})

	result, err := syncer.Sync(ctx, SyncRequest{
		Token:      testToken,
		Dir:        dir,
		AccessTier: "developer",
		Owner:      "platform-team",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Ingested != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 2 ingested", result)
	}

	guide, _ := repo.FindBySlug(ctx, "guide")
	if guide == nil || guide.Title != "Deployment Guide" {
		t.Errorf("guide = %+v, want title from first heading", guide)
	}

	oncall, _ := repo.FindBySlug(ctx, "runbooks/oncall")
	if oncall == nil || oncall.Title != "oncall" {
		t.Errorf("oncall = %+v, want title from filename", oncall)
	}
}

func TestSync_CollectsPerFileFailures(t *testing.T) {
	repo := memstore.NewDocumentStore()
	ing := newTestIngestor(repo, memstore.NewBlobStore(), nil)
	syncer := NewSyncer(ing, fs.NewWalker(nil, nil), logger.Nop())

	dir := writeTree(t, map[string]string{
		"good.md": "# Good",
		"bad.md":  "# Bad",
	})

	// Invalid tier fails every file but never aborts the walk.
	result, err := syncer.Sync(context.Background(), SyncRequest{
		Token:      testToken,
		Dir:        dir,
		AccessTier: "root",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 2 || result.Ingested != 0 {
		t.Errorf("result = %+v, want 2 failures", result)
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"guide.md", "guide"},
		{"runbooks/oncall.md", "runbooks/oncall"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := SlugFromPath(tt.in); got != tt.want {
			t.Errorf("SlugFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleFromBody(t *testing.T) {
	if got := TitleFromBody("## Section Two\n\nbody", "x.md"); got != "Section Two" {
		t.Errorf("TitleFromBody() = %q", got)
	}
	if got := TitleFromBody("plain text only", "dir/fallback.md"); got != "fallback" {
		t.Errorf("TitleFromBody() fallback = %q", got)
	}
}
