package auth

import (
	"crypto/subtle"
	"fmt"

	"dochub/internal/domain"
)

// StaticVerifier accepts a single shared service token. It satisfies the
// credential port so per-caller verification can replace it later.
type StaticVerifier struct {
	token string
}

func NewStaticVerifier(token string) *StaticVerifier {
	return &StaticVerifier{token: token}
}

func (v *StaticVerifier) Verify(token string) error {
	if v.token == "" {
		return fmt.Errorf("%w: no service token configured", domain.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return fmt.Errorf("%w: invalid service token", domain.ErrUnauthorized)
	}
	return nil
}
