package extractor

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdown is shared across calls: the parser configuration never
// changes and per-call state lives in the reader passed to Parse.
var (
	markdown goldmark.Markdown
	initOnce sync.Once
)

func parser() goldmark.Markdown {
	initOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// Extractor pulls internal document references out of markdown bodies.
// rootPrefix is the leading path segment that denotes the document root
// ("docs" by default): "/docs/deployment-guide" and "deployment-guide"
// normalize to the same slug.
type Extractor struct {
	rootPrefix string
}

func New(rootPrefix string) *Extractor {
	return &Extractor{rootPrefix: strings.Trim(rootPrefix, "/")}
}

// Extract returns the normalized slugs of every internal link in body,
// in first-occurrence order with exact duplicates removed. Malformed or
// empty markup degrades to no links; it never fails.
func (e *Extractor) Extract(body string) []string {
	if body == "" {
		return nil
	}

	source := []byte(body)
	doc := parser().Parser().Parse(text.NewReader(source))

	var links []string
	seen := make(map[string]struct{})

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}

		url := string(link.Destination)
		if !isInternal(url) {
			return ast.WalkContinue, nil
		}
		slug := e.normalize(url)
		if slug == "" {
			return ast.WalkContinue, nil
		}
		if _, dup := seen[slug]; !dup {
			seen[slug] = struct{}{}
			links = append(links, slug)
		}
		return ast.WalkContinue, nil
	})

	return links
}

// isInternal reports whether a link destination points at another
// document. Absolute URLs, in-page anchors, and mail links are external.
func isInternal(url string) bool {
	return !strings.HasPrefix(url, "http://") &&
		!strings.HasPrefix(url, "https://") &&
		!strings.HasPrefix(url, "#") &&
		!strings.HasPrefix(url, "mailto:")
}

// normalize reduces a destination to a slug: strip the leading slash and
// root prefix, drop any anchor fragment, trim a trailing slash.
func (e *Extractor) normalize(url string) string {
	s := strings.TrimPrefix(url, "/")
	if e.rootPrefix != "" {
		s = strings.TrimPrefix(s, e.rootPrefix+"/")
	}
	s, _, _ = strings.Cut(s, "#")
	return strings.TrimSuffix(s, "/")
}
