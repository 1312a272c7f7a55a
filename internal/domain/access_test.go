package domain

import (
	"errors"
	"testing"
)

func TestParseAccessTier(t *testing.T) {
	tests := []struct {
		in   string
		want AccessTier
	}{
		{"public", TierPublic},
		{"developer", TierDeveloper},
		{"architect", TierArchitect},
		{"admin", TierAdmin},
		{"Public", TierPublic},
		{"ADMIN", TierAdmin},
		{"Developer", TierDeveloper},
	}

	for _, tt := range tests {
		got, err := ParseAccessTier(tt.in)
		if err != nil {
			t.Errorf("ParseAccessTier(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAccessTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAccessTier_Unknown(t *testing.T) {
	for _, in := range []string{"", "root", "superadmin", "dev"} {
		_, err := ParseAccessTier(in)
		if err == nil {
			t.Errorf("ParseAccessTier(%q) expected error", in)
			continue
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("ParseAccessTier(%q) error = %v, want ErrInvalid", in, err)
		}
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		held     AccessTier
		required AccessTier
		want     bool
	}{
		{TierPublic, TierPublic, true},
		{TierPublic, TierDeveloper, false},
		{TierDeveloper, TierPublic, true},
		{TierArchitect, TierDeveloper, true},
		{TierArchitect, TierAdmin, false},
		{TierAdmin, TierAdmin, true},
	}

	for _, tt := range tests {
		if got := tt.held.Satisfies(tt.required); got != tt.want {
			t.Errorf("%v.Satisfies(%v) = %v, want %v", tt.held, tt.required, got, tt.want)
		}
	}
}

func TestAccessTierString(t *testing.T) {
	if s := TierDeveloper.String(); s != "developer" {
		t.Errorf("String() = %q, want developer", s)
	}
	if s := AccessTier(99).String(); s != "tier(99)" {
		t.Errorf("String() = %q, want tier(99)", s)
	}
}
