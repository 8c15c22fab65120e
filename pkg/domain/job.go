package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Job is one queued fulfillment. RunAt gates visibility to the dispatcher;
// ClaimedAt marks a job as taken by a worker until it is deleted or the
// claim expires.
type Job struct {
	bun.BaseModel `bun:"table:jobs"`

	ID         int64      `bun:",pk,autoincrement"`
	PromptID   int64      `bun:"prompt_id"`
	Prompt     string     `bun:"prompt"`
	OutputType OutputType `bun:"output_type"`
	RunAt      time.Time  `bun:"run_at"`
	ClaimedAt  *time.Time `bun:"claimed_at"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
