package port

// TokenVerifier checks the service credential presented with an
// ingestion request. Kept behind a port so the static shared secret can
// be swapped for per-caller credentials without touching the pipeline.
type TokenVerifier interface {
	// Verify returns an error wrapping domain.ErrUnauthorized when the
	// credential is not acceptable.
	Verify(token string) error
}
