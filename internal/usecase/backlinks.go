package usecase

import (
	"context"
	"fmt"

	"dochub/internal/port"
)

// BacklinkReconciler keeps the backlink graph consistent with each
// document's outgoing links. It turns an old/new link comparison into a
// minimal delta and hands it to the repository, which applies it
// atomically per ingestion.
type BacklinkReconciler struct {
	repo port.DocumentRepository
}

func NewBacklinkReconciler(repo port.DocumentRepository) *BacklinkReconciler {
	return &BacklinkReconciler{repo: repo}
}

// Reconcile updates the backlink sets of every document whose inbound
// links from source changed between oldLinks and newLinks. Targets that
// are not ingested yet are skipped by the repository. Reconciling the
// same pair twice is a no-op.
func (r *BacklinkReconciler) Reconcile(ctx context.Context, source string, oldLinks, newLinks []string) error {
	removed := difference(oldLinks, newLinks)
	added := difference(newLinks, oldLinks)
	if len(removed) == 0 && len(added) == 0 {
		return nil
	}

	if err := r.repo.MutateBacklinks(ctx, source, removed, added); err != nil {
		return fmt.Errorf("reconcile backlinks for %q: %w", source, err)
	}
	return nil
}

// difference returns the elements of a that are not in b, preserving
// the order of a.
func difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}

	var out []string
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
