package domain

import (
	"time"

	"github.com/uptrace/bun"
)

type OutputType string

const (
	OutputTypeText  OutputType = "text"
	OutputTypeImage OutputType = "image"
)

func (t OutputType) Valid() bool {
	return t == OutputTypeText || t == OutputTypeImage
}

type ResultType string

const (
	ResultTypeText  ResultType = "text"
	ResultTypeImage ResultType = "image"
)

// Result is the terminal outcome of a prompt. For text the value is the
// completion itself; for images it is a blob ref, never a URL.
type Result struct {
	Type  ResultType `json:"type"`
	Value string     `json:"value"`
}

// PromptRecord is created pending (Result == nil) and transitions at most
// once, to a terminal result, or is deleted on fulfillment failure.
type PromptRecord struct {
	bun.BaseModel `bun:"table:prompts"`

	ID        int64     `bun:",pk,autoincrement"`
	SessionID string    `bun:"session_id"`
	Prompt    string    `bun:"prompt"`
	Result    *Result   `bun:"result,type:jsonb"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
