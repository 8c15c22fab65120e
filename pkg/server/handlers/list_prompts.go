package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
)

type listPromptProvider interface {
	ListRecent(ctx context.Context, count int) ([]domain.PromptRecord, error)
}

// ListPrompts returns the count newest records, newest first, with image
// refs resolved to URLs.
func ListPrompts(prompts listPromptProvider, blobs blobResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		count, err := parseCount(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "count must be a non-negative integer")
			return
		}

		records, err := prompts.ListRecent(ctx, count)
		if err != nil {
			slog.ErrorContext(ctx, "listing prompts", logger.Err(err))
			respondError(w, http.StatusInternalServerError, "failed to list prompts")
			return
		}

		views := buildViews(ctx, records, blobs)
		if views == nil {
			views = []PromptView{}
		}
		respondJSON(w, http.StatusOK, views)
	}
}
