package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dochub/internal/adapter/extractor"
	"dochub/internal/domain"
	"dochub/internal/metrics"
	"dochub/internal/port"
)

// previewLength bounds the plain-text preview stored on each search
// surrogate.
const previewLength = 280

// Ingestor runs the document ingestion pipeline: authenticate,
// validate, extract links, persist content and metadata, then
// propagate into the backlink graph and the search index.
//
// The pipeline has two failure regimes. Everything up to and including
// the metadata upsert aborts the ingestion. Everything after it is
// best-effort: failures are logged, counted, and reported as warnings
// on the result, because the document is already committed.
type Ingestor struct {
	repo       port.DocumentRepository
	blobs      port.BlobStore
	indexer    port.Indexer // nil when search is not configured
	verifier   port.TokenVerifier
	extractor  *extractor.Extractor
	reconciler *BacklinkReconciler
	log        zerolog.Logger
	metrics    *metrics.Metrics
}

func NewIngestor(
	repo port.DocumentRepository,
	blobs port.BlobStore,
	indexer port.Indexer,
	verifier port.TokenVerifier,
	ext *extractor.Extractor,
	reconciler *BacklinkReconciler,
	log zerolog.Logger,
	m *metrics.Metrics,
) *Ingestor {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Ingestor{
		repo:       repo,
		blobs:      blobs,
		indexer:    indexer,
		verifier:   verifier,
		extractor:  ext,
		reconciler: reconciler,
		log:        log,
		metrics:    m,
	}
}

// IngestRequest is one document revision. ParentSlug, Order, and
// Hidden are optional: a nil field keeps the previously stored value,
// a non-nil field overwrites it, including with the zero value.
type IngestRequest struct {
	Token      string
	Slug       string
	Title      string
	Body       string
	AccessTier string
	Owner      string
	Tags       []string
	ParentSlug *string
	Order      *int
	Hidden     *bool
}

// IngestResult reports a committed ingestion. Warnings carry the
// post-commit stages that failed without undoing the commit.
type IngestResult struct {
	Message  string
	Slug     string
	BlobKey  string
	Warnings []string
}

func (in *Ingestor) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	start := time.Now()

	if err := in.verifier.Verify(req.Token); err != nil {
		in.metrics.IngestTotal.WithLabelValues("unauthorized").Inc()
		return nil, err
	}
	if req.Slug == "" {
		in.metrics.IngestTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: slug must not be empty", domain.ErrInvalid)
	}
	tier, err := domain.ParseAccessTier(req.AccessTier)
	if err != nil {
		in.metrics.IngestTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	links := in.extractor.Extract(req.Body)

	prev, err := in.repo.FindBySlug(ctx, req.Slug)
	if err != nil {
		in.metrics.IngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load previous revision of %q: %w", req.Slug, err)
	}

	blobKey := DocumentBlobKey(req.Slug)
	if err := in.blobs.Put(ctx, blobKey, []byte(req.Body)); err != nil {
		in.metrics.IngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store content for %q: %w", req.Slug, err)
	}

	doc := in.buildDocument(req, prev, tier, blobKey, links)
	if err := in.repo.Upsert(ctx, doc); err != nil {
		in.metrics.IngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store metadata for %q: %w", req.Slug, err)
	}

	// Committed. Everything below reports but never fails.
	result := &IngestResult{
		Message: "document ingested",
		Slug:    req.Slug,
		BlobKey: blobKey,
	}

	var oldLinks []string
	if prev != nil {
		oldLinks = prev.LinksOut
	}
	if err := in.reconciler.Reconcile(ctx, req.Slug, oldLinks, links); err != nil {
		in.log.Warn().Err(err).Str("slug", req.Slug).Msg("backlink reconciliation failed")
		in.metrics.IngestWarnings.Inc()
		result.Warnings = append(result.Warnings, fmt.Sprintf("backlinks not updated: %v", err))
	} else {
		in.metrics.BacklinkMutations.Inc()
	}

	if in.indexer != nil {
		surrogate := BuildSurrogate(doc, req.Body)
		if err := in.indexer.Index(ctx, surrogate); err != nil {
			in.log.Warn().Err(err).Str("slug", req.Slug).Msg("search index update failed")
			in.metrics.IngestWarnings.Inc()
			result.Warnings = append(result.Warnings, fmt.Sprintf("search index not updated: %v", err))
		}
	}

	in.metrics.IngestTotal.WithLabelValues("ok").Inc()
	in.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	in.log.Info().
		Str("slug", req.Slug).
		Int("links_out", len(links)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("document ingested")

	return result, nil
}

// buildDocument merges the request with the previous revision, if any.
// Title, owner, tier, tags, and links are full replacements. Backlinks
// are carried forward untouched: only other documents' ingestions and
// the offline rebuild may change them. Optional fields keep the stored
// value when the request leaves them nil.
func (in *Ingestor) buildDocument(req IngestRequest, prev *domain.Document, tier domain.AccessTier, blobKey string, links []string) domain.Document {
	doc := domain.Document{
		Slug:        req.Slug,
		Title:       req.Title,
		BlobKey:     blobKey,
		AccessTier:  tier,
		Owner:       req.Owner,
		LastUpdated: time.Now().UTC(),
		Tags:        req.Tags,
		LinksOut:    links,
	}

	if prev != nil {
		doc.Backlinks = prev.Backlinks
		doc.ParentSlug = prev.ParentSlug
		doc.Order = prev.Order
		doc.Hidden = prev.Hidden
	}
	if req.ParentSlug != nil {
		doc.ParentSlug = *req.ParentSlug
	}
	if req.Order != nil {
		doc.Order = *req.Order
	}
	if req.Hidden != nil {
		doc.Hidden = *req.Hidden
	}
	return doc
}

// DocumentBlobKey derives the content key for a slug. Slashes are
// flattened so every document lives directly under the docs/ prefix.
func DocumentBlobKey(slug string) string {
	return "docs/" + strings.ReplaceAll(slug, "/", "_") + ".md"
}

// BuildSurrogate projects a document plus its raw body into the
// denormalized record the search index stores.
func BuildSurrogate(doc domain.Document, body string) domain.SearchDocument {
	return domain.SearchDocument{
		Slug:        doc.Slug,
		Title:       doc.Title,
		AccessTier:  int(doc.AccessTier),
		Owner:       doc.Owner,
		Tags:        doc.Tags,
		Preview:     extractor.Preview(body, previewLength),
		LastUpdated: doc.LastUpdated.Unix(),
	}
}
