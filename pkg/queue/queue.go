package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/uptrace/bun"
)

// Queue is a durable at-least-once deferred-call primitive on top of the
// jobs table. Claims are leases: a claimed job that is never deleted (a
// crashed worker) becomes claimable again once ReleaseExpired runs.
type Queue struct {
	db *bun.DB
}

func New(db *bun.DB) *Queue {
	return &Queue{db: db}
}

func (q *Queue) Enqueue(ctx context.Context, job *domain.Job, delay time.Duration) error {
	job.RunAt = time.Now().Add(delay)

	_, err := q.db.NewInsert().
		Model(job).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("enqueueing job: %w", err)
	}

	return nil
}

// Claim takes the oldest due unclaimed job, or returns nil when none is due.
func (q *Queue) Claim(ctx context.Context) (*domain.Job, error) {
	var job domain.Job

	err := q.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&job).
			Where("claimed_at IS NULL").
			Where("run_at <= now()").
			Order("run_at ASC", "id ASC").
			Limit(1).
			For("UPDATE SKIP LOCKED").
			Scan(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		job.ClaimedAt = &now

		_, err = tx.NewUpdate().
			Model(&job).
			Column("claimed_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claiming job: %w", err)
	}

	return &job, nil
}

func (q *Queue) Delete(ctx context.Context, id int64) error {
	_, err := q.db.NewDelete().
		Model((*domain.Job)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting job %d: %w", id, err)
	}

	return nil
}

// ReleaseExpired clears claims older than timeout so jobs abandoned by a
// crashed worker run again.
func (q *Queue) ReleaseExpired(ctx context.Context, timeout time.Duration) (int64, error) {
	res, err := q.db.NewUpdate().
		Model((*domain.Job)(nil)).
		Set("claimed_at = NULL").
		Where("claimed_at < ?", time.Now().Add(-timeout)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("releasing expired claims: %w", err)
	}

	released, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return released, nil
}
