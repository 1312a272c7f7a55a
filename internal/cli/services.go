package cli

import (
	"fmt"

	"dochub/internal/adapter/auth"
	"dochub/internal/adapter/blob"
	"dochub/internal/adapter/extractor"
	"dochub/internal/adapter/search"
	"dochub/internal/adapter/store"
	"dochub/internal/port"
	"dochub/internal/usecase"
)

// services wires the configured adapters and usecases for one command
// invocation.
type services struct {
	store   *store.BoltStore
	blobs   *blob.BoltBlobStore
	indexer port.Indexer // nil when search is disabled

	ingestor  *usecase.Ingestor
	query     *usecase.Query
	schemas   *usecase.SchemaService
	rebuilder *usecase.Rebuilder
}

func openServices() (*services, error) {
	if err := cfg.EnsureStorageDir(); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	st, err := store.NewBoltStore(cfg.MetadataDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	blobs, err := blob.NewBoltBlobStore(cfg.BlobDBPath())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	var indexer port.Indexer
	if cfg.Search.Enabled {
		ix, err := search.NewBoltIndexer(cfg.IndexDBPath(), cfg.Search.Limit)
		if err != nil {
			blobs.Close()
			st.Close()
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
		indexer = ix
	}

	verifier := auth.NewStaticVerifier(cfg.ServiceToken())
	ext := extractor.New(cfg.Ingest.RootPrefix)
	reconciler := usecase.NewBacklinkReconciler(st)
	m := newMetrics()

	s := &services{
		store:   st,
		blobs:   blobs,
		indexer: indexer,
	}
	s.ingestor = usecase.NewIngestor(st, blobs, indexer, verifier, ext, reconciler, log, m)
	s.query = usecase.NewQuery(st, indexer, m)
	s.schemas = usecase.NewSchemaService(st.Schemas(), blobs, verifier, log, m)
	s.rebuilder = usecase.NewRebuilder(st, blobs, indexer, log)
	return s, nil
}

func (s *services) Close() {
	if s.indexer != nil {
		s.indexer.Close()
	}
	s.blobs.Close()
	s.store.Close()
}
