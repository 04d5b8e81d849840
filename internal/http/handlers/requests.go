package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// ListRequests dumps the registry for operational visibility.
func (a *App) ListRequests(w http.ResponseWriter, _ *http.Request) {
	recs := a.Registry.List()
	byID := make(map[string]domain.VideoRequest, len(recs))
	for _, rec := range recs {
		byID[rec.RequestID] = rec
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_requests": len(recs),
		"requests":       byID,
	})
}

// GetRequest returns a single tracked request.
func (a *App) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "request_id")
	rec, err := a.Registry.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, a.msg(r, msgRequestNotFound))
		return
	}
	a.json(w, http.StatusOK, rec)
}
