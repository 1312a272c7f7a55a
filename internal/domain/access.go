package domain

import (
	"fmt"
	"strings"
)

// AccessTier is one level in the ordered privilege hierarchy gating
// document visibility. The numeric order is the privilege order:
// Public is the weakest tier, Admin the strongest.
type AccessTier int

const (
	TierPublic AccessTier = iota
	TierDeveloper
	TierArchitect
	TierAdmin
)

// tierNames is the accepted vocabulary, in privilege order.
var tierNames = []string{"public", "developer", "architect", "admin"}

// ParseAccessTier parses a tier name case-insensitively. Unknown text is
// a validation error; callers decide whether a default applies.
func ParseAccessTier(s string) (AccessTier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, t := range tierNames {
		if name == t {
			return AccessTier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown access tier %q (expected one of: %s)",
		ErrInvalid, s, strings.Join(tierNames, ", "))
}

// Satisfies reports whether a caller holding tier t may view content
// requiring the given tier.
func (t AccessTier) Satisfies(required AccessTier) bool {
	return t >= required
}

func (t AccessTier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}
