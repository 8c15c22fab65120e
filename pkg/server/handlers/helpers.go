package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

const defaultListCount = 10

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parseCount reads the count query param; any n >= 0 is accepted, with no
// upper bound.
func parseCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return defaultListCount, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, strconv.ErrSyntax
	}
	return count, nil
}
