package extractor

import (
	"reflect"
	"testing"
)

func TestExtract_InternalLinks(t *testing.T) {
	e := New("docs")

	body := `# Guide

See the [deployment guide](/docs/deployment-guide) and the
[runbook](runbooks/oncall). External: [Go](https://go.dev),
[site](http://example.com), [anchor](#section), [mail](mailto:team@example.com).`

	got := e.Extract(body)
	want := []string{"deployment-guide", "runbooks/oncall"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_Normalization(t *testing.T) {
	e := New("root")

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "leading slash and root prefix",
			body: `[a](/root/alpha)`,
			want: []string{"alpha"},
		},
		{
			name: "anchor fragment stripped",
			body: `[a](alpha#setup)`,
			want: []string{"alpha"},
		},
		{
			name: "trailing slash trimmed",
			body: `[a](alpha/)`,
			want: []string{"alpha"},
		},
		{
			name: "bare prefix without slash kept",
			body: `[a](rootless)`,
			want: []string{"rootless"},
		},
		{
			name: "anchor-only internal link dropped",
			body: `[a](/root/alpha#one) [b](#two)`,
			want: []string{"alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestExtract_DedupesFirstOccurrence(t *testing.T) {
	e := New("docs")

	body := `[one](beta) [two](alpha) [again](/docs/beta) [three](gamma)`
	got := e.Extract(body)
	want := []string{"beta", "alpha", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_EmptyAndPlainBodies(t *testing.T) {
	e := New("docs")

	if got := e.Extract(""); got != nil {
		t.Errorf("Extract(empty) = %v, want nil", got)
	}
	if got := e.Extract("no links here, just prose"); got != nil {
		t.Errorf("Extract(plain) = %v, want nil", got)
	}
}

func TestExtract_IgnoresCodeSpans(t *testing.T) {
	e := New("docs")

	body := "In code: `[not a link](alpha)`\n\n```\n[also not](beta)\n```\n\n[real](gamma)"
	got := e.Extract(body)
	want := []string{"gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}
