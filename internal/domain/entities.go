package domain

import "time"

// Document is the durable unit of content. The body itself lives in the
// blob store under BlobKey; everything else is metadata.
//
// Backlinks is derived state: it is mutated only by backlink
// reconciliation as a side effect of other documents' ingestion, never
// set directly by a client.
type Document struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	BlobKey     string     `json:"blob_key"`
	AccessTier  AccessTier `json:"access_tier"`
	Owner       string     `json:"owner"`
	LastUpdated time.Time  `json:"last_updated"`
	Tags        []string   `json:"tags,omitempty"`
	LinksOut    []string   `json:"links_out,omitempty"`
	Backlinks   []string   `json:"backlinks,omitempty"`
	ParentSlug  string     `json:"parent_slug,omitempty"`
	Order       int        `json:"order,omitempty"`
	Hidden      bool       `json:"hidden,omitempty"`
}

// SearchDocument is the denormalized search surrogate of a Document plus
// a markup-stripped content preview. It is rebuilt fully on every
// ingestion and is never authoritative.
type SearchDocument struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	AccessTier  int      `json:"access_tier"`
	Owner       string   `json:"owner"`
	Tags        []string `json:"tags,omitempty"`
	Preview     string   `json:"preview"`
	LastUpdated int64    `json:"last_updated"`
}

// SearchHit is a single search result.
type SearchHit struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags,omitempty"`
	Preview string   `json:"preview"`
	Score   float64  `json:"score"`
}

// Schema is a registered API schema with its versioned artifacts. The
// artifact contents live in the blob store.
type Schema struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Versions []SchemaVersion `json:"versions"`
}

// SchemaVersion is one version entry of a Schema.
type SchemaVersion struct {
	Version string `json:"version"`
	BlobKey string `json:"blob_key"`
	Status  string `json:"status"`
}
