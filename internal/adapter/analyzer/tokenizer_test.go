package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		in   string
		want []string
	}{
		{"Deployment Guide", []string{"deployment", "guide"}},
		{"the quick-start for deployment", []string{"quick", "start", "deployment"}},
		{"retry_policy v2", []string{"retry_policy", "v2"}},
		{"a I x", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := tok.Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTokenize_DropsStopwords(t *testing.T) {
	tok := NewTokenizer()
	got := tok.Tokenize("this is the deployment of services")
	want := []string{"deployment", "services"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}
