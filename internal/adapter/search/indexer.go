package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.etcd.io/bbolt"

	"dochub/internal/adapter/analyzer"
	"dochub/internal/domain"
)

var (
	bucketSurrogates = []byte("surrogates")
	bucketTerms      = []byte("terms")
	bucketStats      = []byte("stats")
	keyStats         = []byte("index_stats")
)

// BM25 parameters.
const (
	defaultK1 = 1.2
	defaultB  = 0.75
)

// BoltIndexer is an embedded search index over document surrogates:
// an inverted term index with BM25 ranking, filtered by access tier at
// query time. It lives in its own database file so index corruption
// never touches document metadata.
type BoltIndexer struct {
	db        *bbolt.DB
	tokenizer *analyzer.Tokenizer
	limit     int
}

// surrogateRecord is the stored form of a surrogate plus the term
// statistics needed to score and to cleanly replace it later.
type surrogateRecord struct {
	Doc    domain.SearchDocument `json:"doc"`
	Terms  []string              `json:"terms"`
	Length int                   `json:"length"`
}

type posting struct {
	Slug string `json:"slug"`
	TF   int    `json:"tf"`
}

type indexStats struct {
	TotalDocs   int `json:"total_docs"`
	TotalTokens int `json:"total_tokens"`
}

func NewBoltIndexer(path string, limit int) (*BoltIndexer, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open search index: %v", domain.ErrStorage, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSurrogates, bucketTerms, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create index buckets: %v", domain.ErrStorage, err)
	}

	if limit <= 0 {
		limit = 20
	}
	return &BoltIndexer{db: db, tokenizer: analyzer.NewTokenizer(), limit: limit}, nil
}

// Index fully replaces the surrogate for doc.Slug in a single write
// transaction. Any previous postings for the slug are withdrawn first.
func (ix *BoltIndexer) Index(ctx context.Context, doc domain.SearchDocument) error {
	tokens := ix.tokenizer.Tokenize(searchableText(doc))

	tf := make(map[string]int)
	for _, t := range tokens {
		tf[t]++
	}
	terms := make([]string, 0, len(tf))
	for t := range tf {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	err := ix.db.Update(func(tx *bbolt.Tx) error {
		surrogates := tx.Bucket(bucketSurrogates)
		stats, err := readStats(tx)
		if err != nil {
			return err
		}

		if err := dropRecord(tx, &stats, doc.Slug); err != nil {
			return err
		}

		rec := surrogateRecord{Doc: doc, Terms: terms, Length: len(tokens)}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode surrogate %q: %w", doc.Slug, err)
		}
		if err := surrogates.Put([]byte(doc.Slug), data); err != nil {
			return err
		}

		for _, term := range terms {
			if err := putPosting(tx, term, doc.Slug, tf[term]); err != nil {
				return err
			}
		}

		stats.TotalDocs++
		stats.TotalTokens += len(tokens)
		return writeStats(tx, stats)
	})
	if err != nil {
		return fmt.Errorf("%w: index %q: %v", domain.ErrStorage, doc.Slug, err)
	}
	return nil
}

// Remove deletes the surrogate and its postings. Unknown slugs are a
// no-op.
func (ix *BoltIndexer) Remove(ctx context.Context, slug string) error {
	err := ix.db.Update(func(tx *bbolt.Tx) error {
		stats, err := readStats(tx)
		if err != nil {
			return err
		}
		if err := dropRecord(tx, &stats, slug); err != nil {
			return err
		}
		return writeStats(tx, stats)
	})
	if err != nil {
		return fmt.Errorf("%w: remove %q from index: %v", domain.ErrStorage, slug, err)
	}
	return nil
}

// Search scores surrogates with BM25 and returns hits visible at or
// below maxTier, best first, capped at the configured limit.
func (ix *BoltIndexer) Search(ctx context.Context, query string, maxTier domain.AccessTier) ([]domain.SearchHit, error) {
	queryTokens := ix.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	var hits []domain.SearchHit
	err := ix.db.View(func(tx *bbolt.Tx) error {
		stats, err := readStats(tx)
		if err != nil {
			return err
		}
		if stats.TotalDocs == 0 {
			return nil
		}
		avgLen := float64(stats.TotalTokens) / float64(stats.TotalDocs)
		if avgLen == 0 {
			avgLen = 1
		}

		scores := make(map[string]float64)
		records := make(map[string]surrogateRecord)

		for _, term := range queryTokens {
			postings, err := readPostings(tx, term)
			if err != nil {
				return err
			}
			if len(postings) == 0 {
				continue
			}

			n := float64(len(postings))
			N := float64(stats.TotalDocs)
			idf := math.Log((N-n+0.5)/(n+0.5) + 1)

			for _, p := range postings {
				rec, ok := records[p.Slug]
				if !ok {
					loaded, err := readRecord(tx, p.Slug)
					if err != nil || loaded == nil {
						continue
					}
					rec = *loaded
					records[p.Slug] = rec
				}

				dl := float64(rec.Length)
				tf := float64(p.TF)
				scores[p.Slug] += idf * (tf * (defaultK1 + 1)) /
					(tf + defaultK1*(1-defaultB+defaultB*dl/avgLen))
			}
		}

		for slug, score := range scores {
			rec := records[slug]
			if !maxTier.Satisfies(domain.AccessTier(rec.Doc.AccessTier)) {
				continue
			}
			hits = append(hits, domain.SearchHit{
				Slug:    rec.Doc.Slug,
				Title:   rec.Doc.Title,
				Tags:    rec.Doc.Tags,
				Preview: rec.Doc.Preview,
				Score:   score,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrStorage, err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Slug < hits[j].Slug
	})
	if len(hits) > ix.limit {
		hits = hits[:ix.limit]
	}
	return hits, nil
}

func (ix *BoltIndexer) Close() error {
	return ix.db.Close()
}

// searchableText flattens the indexed fields of a surrogate.
func searchableText(doc domain.SearchDocument) string {
	parts := []string{doc.Title, doc.Preview, doc.Slug, doc.Owner}
	parts = append(parts, doc.Tags...)
	return strings.Join(parts, " ")
}

// dropRecord withdraws an existing surrogate's postings and stats
// contribution. Missing slugs are ignored.
func dropRecord(tx *bbolt.Tx, stats *indexStats, slug string) error {
	rec, err := readRecord(tx, slug)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	for _, term := range rec.Terms {
		if err := removePosting(tx, term, slug); err != nil {
			return err
		}
	}
	if err := tx.Bucket(bucketSurrogates).Delete([]byte(slug)); err != nil {
		return err
	}

	stats.TotalDocs--
	stats.TotalTokens -= rec.Length
	if stats.TotalDocs < 0 {
		stats.TotalDocs = 0
	}
	if stats.TotalTokens < 0 {
		stats.TotalTokens = 0
	}
	return nil
}

func readRecord(tx *bbolt.Tx, slug string) (*surrogateRecord, error) {
	data := tx.Bucket(bucketSurrogates).Get([]byte(slug))
	if data == nil {
		return nil, nil
	}
	var rec surrogateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode surrogate %q: %w", slug, err)
	}
	return &rec, nil
}

func readPostings(tx *bbolt.Tx, term string) ([]posting, error) {
	data := tx.Bucket(bucketTerms).Get([]byte(term))
	if data == nil {
		return nil, nil
	}
	var postings []posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("decode postings for %q: %w", term, err)
	}
	return postings, nil
}

func putPosting(tx *bbolt.Tx, term, slug string, tf int) error {
	postings, err := readPostings(tx, term)
	if err != nil {
		return err
	}
	found := false
	for i := range postings {
		if postings[i].Slug == slug {
			postings[i].TF = tf
			found = true
			break
		}
	}
	if !found {
		postings = append(postings, posting{Slug: slug, TF: tf})
	}
	data, err := json.Marshal(postings)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketTerms).Put([]byte(term), data)
}

func removePosting(tx *bbolt.Tx, term, slug string) error {
	postings, err := readPostings(tx, term)
	if err != nil {
		return err
	}
	filtered := postings[:0]
	for _, p := range postings {
		if p.Slug != slug {
			filtered = append(filtered, p)
		}
	}
	b := tx.Bucket(bucketTerms)
	if len(filtered) == 0 {
		return b.Delete([]byte(term))
	}
	data, err := json.Marshal(filtered)
	if err != nil {
		return err
	}
	return b.Put([]byte(term), data)
}

func readStats(tx *bbolt.Tx) (indexStats, error) {
	var stats indexStats
	data := tx.Bucket(bucketStats).Get(keyStats)
	if data == nil {
		return stats, nil
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("decode index stats: %w", err)
	}
	return stats, nil
}

func writeStats(tx *bbolt.Tx, stats indexStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketStats).Put(keyStats, data)
}
