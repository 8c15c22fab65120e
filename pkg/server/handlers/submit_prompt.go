package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
)

type submitPromptCreator interface {
	Create(ctx context.Context, record *domain.PromptRecord) error
}

type submitJobEnqueuer interface {
	Enqueue(ctx context.Context, job *domain.Job, delay time.Duration) error
}

type submitChangeNotifier interface {
	Notify()
}

type submitRequest struct {
	SessionID  string            `json:"sessionId"`
	Prompt     string            `json:"prompt"`
	OutputType domain.OutputType `json:"outputType"`
}

// SubmitPrompt inserts a pending record and schedules exactly one
// zero-delay fulfillment job for it. Fulfillment is asynchronous; the
// caller only learns the new record id. An empty prompt is accepted and
// forwarded as-is.
func SubmitPrompt(
	prompts submitPromptCreator,
	jobs submitJobEnqueuer,
	notifier submitChangeNotifier,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if !req.OutputType.Valid() {
			respondError(w, http.StatusBadRequest, "outputType must be \"text\" or \"image\"")
			return
		}

		record := &domain.PromptRecord{
			SessionID: req.SessionID,
			Prompt:    req.Prompt,
		}
		if err := prompts.Create(ctx, record); err != nil {
			slog.ErrorContext(ctx, "creating prompt record", logger.Err(err))
			respondError(w, http.StatusInternalServerError, "failed to save prompt")
			return
		}

		job := &domain.Job{
			PromptID:   record.ID,
			Prompt:     req.Prompt,
			OutputType: req.OutputType,
		}
		if err := jobs.Enqueue(ctx, job, 0); err != nil {
			slog.ErrorContext(ctx, "enqueueing fulfillment job", "promptID", record.ID, logger.Err(err))
			respondError(w, http.StatusInternalServerError, "failed to schedule generation")
			return
		}

		notifier.Notify()
		respondJSON(w, http.StatusAccepted, map[string]int64{"id": record.ID})
	}
}
