package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"dochub/internal/domain"
)

// SchemaStore is the schema repository, sharing the BoltStore database.
// Schemas are a flat name-keyed collection with no graph maintenance.
type SchemaStore struct {
	db *bbolt.DB
}

// Schemas returns the schema repository view of the store.
func (s *BoltStore) Schemas() *SchemaStore {
	return &SchemaStore{db: s.db}
}

func (s *SchemaStore) Upsert(ctx context.Context, schema domain.Schema) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(schema)
		if err != nil {
			return fmt.Errorf("%w: encode schema %q: %v", domain.ErrInternal, schema.Name, err)
		}
		if err := tx.Bucket(bucketSchemas).Put([]byte(schema.Name), data); err != nil {
			return fmt.Errorf("%w: put schema %q: %v", domain.ErrStorage, schema.Name, err)
		}
		return nil
	})
}

func (s *SchemaStore) FindByName(ctx context.Context, name string) (*domain.Schema, error) {
	var schema *domain.Schema
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSchemas).Get([]byte(name))
		if data == nil {
			return nil
		}
		var sc domain.Schema
		if err := json.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("%w: decode schema %q: %v", domain.ErrInternal, name, err)
		}
		schema = &sc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *SchemaStore) ListAll(ctx context.Context) ([]domain.Schema, error) {
	var schemas []domain.Schema
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSchemas).ForEach(func(k, v []byte) error {
			var sc domain.Schema
			if err := json.Unmarshal(v, &sc); err != nil {
				return fmt.Errorf("%w: decode schema %q: %v", domain.ErrInternal, k, err)
			}
			schemas = append(schemas, sc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return schemas, nil
}
