package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Blob holds generated binary media. Ref is the sha256 hex of Data, so
// storing the same bytes twice yields the same ref.
type Blob struct {
	bun.BaseModel `bun:"table:blobs"`

	Ref         string    `bun:"ref,pk"`
	ContentType string    `bun:"content_type"`
	Data        []byte    `bun:"data"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
