package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
	"github.com/samber/lo"
)

// PromptView is the record as clients see it: image refs are resolved to
// URLs at read time, and the session hue is derived server-side so every
// card of one session shares a color.
type PromptView struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"sessionId"`
	Hue       int         `json:"hue"`
	Prompt    string      `json:"prompt"`
	Result    *ResultView `json:"result"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ResultView mirrors domain.Result except that an image value is a URL,
// or null when the underlying blob has been deleted.
type ResultView struct {
	Type  domain.ResultType `json:"type"`
	Value *string           `json:"value"`
}

type blobResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

func buildViews(ctx context.Context, records []domain.PromptRecord, blobs blobResolver) []PromptView {
	return lo.Map(records, func(record domain.PromptRecord, _ int) PromptView {
		return PromptView{
			ID:        record.ID,
			SessionID: record.SessionID,
			Hue:       domain.SessionHue(record.SessionID),
			Prompt:    record.Prompt,
			Result:    buildResultView(ctx, record, blobs),
			CreatedAt: record.CreatedAt,
		}
	})
}

func buildResultView(ctx context.Context, record domain.PromptRecord, blobs blobResolver) *ResultView {
	if record.Result == nil {
		return nil
	}

	if record.Result.Type != domain.ResultTypeImage {
		return &ResultView{Type: record.Result.Type, Value: &record.Result.Value}
	}

	// Resolution re-runs on every read; a missing blob degrades to a null
	// value, it never fails the whole list.
	url, err := blobs.Resolve(ctx, record.Result.Value)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "resolving blob URL", "ref", record.Result.Value, logger.Err(err))
		}
		return &ResultView{Type: domain.ResultTypeImage}
	}

	return &ResultView{Type: domain.ResultTypeImage, Value: &url}
}
