package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Preview strips markdown syntax from body and returns up to max bytes
// of plain text, for use in search surrogates.
func Preview(body string, max int) string {
	if body == "" || max <= 0 {
		return ""
	}

	source := []byte(body)
	doc := parser().Parser().Parse(text.NewReader(source))

	var b strings.Builder

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if b.Len() >= max {
			return ast.WalkStop, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			appendText(&b, string(t.Segment.Value(source)))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len() && b.Len() < max; i++ {
				seg := lines.At(i)
				appendText(&b, string(seg.Value(source)))
			}
		}
		return ast.WalkContinue, nil
	})

	out := b.String()
	if len(out) > max {
		// Back up to a rune boundary so the cut never leaves a
		// partial multi-byte sequence.
		cut := max
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

func appendText(b *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(s)
}
