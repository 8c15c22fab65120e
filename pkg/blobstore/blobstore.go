package blobstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/uptrace/bun"
)

// Store is content-addressed blob storage: refs are the sha256 hex of the
// bytes, so records only ever hold stable refs and URL resolution happens
// at read time.
type Store struct {
	db      *bun.DB
	baseURL string
}

func New(db *bun.DB, baseURL string) *Store {
	return &Store{db: db, baseURL: baseURL}
}

func (s *Store) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	sum := sha256.Sum256(data)
	blob := &domain.Blob{
		Ref:         hex.EncodeToString(sum[:]),
		ContentType: contentType,
		Data:        data,
	}

	_, err := s.db.NewInsert().
		Model(blob).
		On("CONFLICT (ref) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("saving blob: %w", err)
	}

	return blob.Ref, nil
}

// Resolve maps a ref to a fetchable URL. A ref whose blob has been removed
// yields domain.ErrNotFound, not a broken URL.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	exists, err := s.db.NewSelect().
		Model((*domain.Blob)(nil)).
		Where("ref = ?", ref).
		Exists(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving blob %s: %w", ref, err)
	}
	if !exists {
		return "", domain.ErrNotFound
	}

	return s.baseURL + "/blobs/" + ref, nil
}

func (s *Store) Get(ctx context.Context, ref string) (*domain.Blob, error) {
	var blob domain.Blob

	err := s.db.NewSelect().
		Model(&blob).
		Where("ref = ?", ref).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching blob %s: %w", ref, err)
	}

	return &blob, nil
}
