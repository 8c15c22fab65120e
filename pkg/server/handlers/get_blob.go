package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
)

type blobGetter interface {
	Get(ctx context.Context, ref string) (*domain.Blob, error)
}

func GetBlob(blobs blobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ref := r.PathValue("ref")

		blob, err := blobs.Get(ctx, ref)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.ErrorContext(ctx, "fetching blob", "ref", ref, logger.Err(err))
			respondError(w, http.StatusInternalServerError, "failed to fetch blob")
			return
		}

		// Refs are content hashes, so blob bytes never change.
		w.Header().Set("Content-Type", blob.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Write(blob.Data)
	}
}
