package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/uptrace/bun"
)

type promptRepository struct {
	db *bun.DB
}

func NewPromptRepository(db *bun.DB) *promptRepository {
	return &promptRepository{db: db}
}

func (p *promptRepository) Create(ctx context.Context, record *domain.PromptRecord) error {
	_, err := p.db.NewInsert().
		Model(record).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("saving prompt record: %w", err)
	}

	return nil
}

func (p *promptRepository) SetResult(ctx context.Context, id int64, result domain.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	_, err = p.db.NewUpdate().
		Model((*domain.PromptRecord)(nil)).
		Set("result = ?", string(payload)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("setting result for prompt %d: %w", id, err)
	}

	return nil
}

func (p *promptRepository) Delete(ctx context.Context, id int64) error {
	_, err := p.db.NewDelete().
		Model((*domain.PromptRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting prompt %d: %w", id, err)
	}

	return nil
}

// ListRecent returns the count newest records, newest first.
func (p *promptRepository) ListRecent(ctx context.Context, count int) ([]domain.PromptRecord, error) {
	if count <= 0 {
		return nil, nil
	}

	var records []domain.PromptRecord

	err := p.db.NewSelect().
		Model(&records).
		Order("created_at DESC", "id DESC").
		Limit(count).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recent prompts: %w", err)
	}

	return records, nil
}
