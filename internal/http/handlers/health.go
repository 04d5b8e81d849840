package handlers

import (
	"net/http"
	"time"
)

// Root is the liveness endpoint.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"message":   a.msg(r, msgRunning),
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health reports configuration state without touching the provider. It stays
// available even when the API key is missing.
func (a *App) Health(w http.ResponseWriter, _ *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"api_key_configured":  a.configured(),
		"service_initialized": a.Videos != nil,
		"template_id":         a.TemplateID,
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}
