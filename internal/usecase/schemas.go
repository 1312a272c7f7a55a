package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"dochub/internal/domain"
	"dochub/internal/metrics"
	"dochub/internal/port"
)

var (
	schemaTypes    = []string{"openapi", "asyncapi", "jsonschema"}
	schemaStatuses = []string{"stable", "beta", "deprecated"}
)

// SchemaService is the registry for API and data schemas. It is the
// simpler sibling of document ingestion: content plus versioned
// metadata, no link extraction and no graph to maintain.
type SchemaService struct {
	schemas  port.SchemaRepository
	blobs    port.BlobStore
	verifier port.TokenVerifier
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewSchemaService(
	schemas port.SchemaRepository,
	blobs port.BlobStore,
	verifier port.TokenVerifier,
	log zerolog.Logger,
	m *metrics.Metrics,
) *SchemaService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &SchemaService{
		schemas:  schemas,
		blobs:    blobs,
		verifier: verifier,
		log:      log,
		metrics:  m,
	}
}

// SchemaIngestRequest is one schema version. Status defaults to
// "stable" when empty.
type SchemaIngestRequest struct {
	Token   string
	Name    string
	Type    string
	Version string
	Status  string
	Content string
}

type SchemaIngestResult struct {
	Message string
	Name    string
	Version string
	BlobKey string
}

func (s *SchemaService) IngestSchema(ctx context.Context, req SchemaIngestRequest) (*SchemaIngestResult, error) {
	if err := s.verifier.Verify(req.Token); err != nil {
		s.metrics.SchemaIngestTotal.WithLabelValues("unauthorized").Inc()
		return nil, err
	}
	if req.Name == "" {
		s.metrics.SchemaIngestTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: schema name must not be empty", domain.ErrInvalid)
	}
	if !contains(schemaTypes, req.Type) {
		s.metrics.SchemaIngestTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: unknown schema type %q (expected one of: %s)",
			domain.ErrInvalid, req.Type, strings.Join(schemaTypes, ", "))
	}
	if req.Version == "" {
		s.metrics.SchemaIngestTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: schema version must not be empty", domain.ErrInvalid)
	}
	status := req.Status
	if status == "" {
		status = "stable"
	}
	if !contains(schemaStatuses, status) {
		s.metrics.SchemaIngestTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: unknown schema status %q (expected one of: %s)",
			domain.ErrInvalid, req.Status, strings.Join(schemaStatuses, ", "))
	}

	blobKey := SchemaBlobKey(req.Name, req.Version, req.Content)
	if err := s.blobs.Put(ctx, blobKey, []byte(req.Content)); err != nil {
		s.metrics.SchemaIngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store schema content for %q: %w", req.Name, err)
	}

	existing, err := s.schemas.FindByName(ctx, req.Name)
	if err != nil {
		s.metrics.SchemaIngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load schema %q: %w", req.Name, err)
	}

	schema := domain.Schema{Name: req.Name, Type: req.Type}
	if existing != nil {
		schema.Versions = existing.Versions
	}
	schema.Versions = upsertVersion(schema.Versions, domain.SchemaVersion{
		Version: req.Version,
		BlobKey: blobKey,
		Status:  status,
	})

	if err := s.schemas.Upsert(ctx, schema); err != nil {
		s.metrics.SchemaIngestTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store schema %q: %w", req.Name, err)
	}

	s.metrics.SchemaIngestTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Str("name", req.Name).
		Str("version", req.Version).
		Str("status", status).
		Msg("schema ingested")

	return &SchemaIngestResult{
		Message: "schema ingested",
		Name:    req.Name,
		Version: req.Version,
		BlobKey: blobKey,
	}, nil
}

// GetSchemaContent returns the stored content of one schema version.
func (s *SchemaService) GetSchemaContent(ctx context.Context, name, version string) ([]byte, error) {
	schema, err := s.schemas.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: schema %q", domain.ErrNotFound, name)
	}

	for _, v := range schema.Versions {
		if v.Version == version {
			return s.blobs.Get(ctx, v.BlobKey)
		}
	}
	return nil, fmt.Errorf("%w: schema %q has no version %q", domain.ErrNotFound, name, version)
}

// GetSchema returns one schema's metadata, or ErrNotFound.
func (s *SchemaService) GetSchema(ctx context.Context, name string) (*domain.Schema, error) {
	schema, err := s.schemas.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: schema %q", domain.ErrNotFound, name)
	}
	return schema, nil
}

func (s *SchemaService) ListSchemas(ctx context.Context) ([]domain.Schema, error) {
	return s.schemas.ListAll(ctx)
}

// SchemaBlobKey derives the content key for a schema version. The
// extension is sniffed from the content: JSON documents start with a
// brace, everything else is treated as YAML.
func SchemaBlobKey(name, version, content string) string {
	ext := "yaml"
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		ext = "json"
	}
	return fmt.Sprintf("schemas/%s/%s.%s", name, version, ext)
}

// upsertVersion replaces the entry with the same version, or appends.
func upsertVersion(versions []domain.SchemaVersion, v domain.SchemaVersion) []domain.SchemaVersion {
	for i := range versions {
		if versions[i].Version == v.Version {
			versions[i] = v
			return versions
		}
	}
	return append(versions, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
