package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"server/internal/infra"
	"server/internal/providers/heygen"
	"server/internal/registry"
	"server/internal/validation"
)

// VideoService is the slice of the provider client the handlers depend on.
type VideoService interface {
	GenerateVideo(ctx context.Context, req heygen.GenerateRequest) (*heygen.GenerateResult, error)
	VideoStatus(ctx context.Context, videoID string) (*heygen.StatusResult, error)
	HasCredentials() bool
}

// App groups the dependencies of the HTTP surface. Everything is injected at
// startup; handlers hold no process-wide state of their own.
type App struct {
	Log        infra.Logger
	Registry   *registry.Registry
	Videos     VideoService
	TemplateID string

	validate *validatorv10.Validate
}

func NewApp(log infra.Logger, reg *registry.Registry, videos VideoService, templateID string) *App {
	return &App{
		Log:        log,
		Registry:   reg,
		Videos:     videos,
		TemplateID: templateID,
		validate:   validation.New(),
	}
}

type errorEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the uniform failure envelope used on every error path.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, errorEnvelope{Success: false, Message: msg, StatusCode: code})
}

// configured reports whether the provider client can be used; both endpoints
// that reach the provider gate on this before doing anything else.
func (a *App) configured() bool {
	return a.Videos != nil && a.Videos.HasCredentials()
}

// providerError translates a provider client failure into the caller-facing
// taxonomy. Raw provider bodies were already logged by the client.
func (a *App) providerError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *heygen.APIError
	switch {
	case errors.Is(err, heygen.ErrMissingAPIKey):
		a.error(w, http.StatusInternalServerError, a.msg(r, msgNotConfigured))
	case errors.Is(err, heygen.ErrTimeout):
		a.error(w, http.StatusRequestTimeout, a.msg(r, msgProviderTimeout))
	case errors.Is(err, heygen.ErrUnavailable):
		a.error(w, http.StatusServiceUnavailable, a.msg(r, msgProviderUnavail))
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		a.error(w, status, fmt.Sprintf(a.msg(r, msgProviderErrorFmt), apiErr.StatusCode))
	case errors.Is(err, heygen.ErrMalformedResponse):
		a.error(w, http.StatusInternalServerError, a.msg(r, msgUnexpectedResponse))
	default:
		a.error(w, http.StatusInternalServerError, a.msg(r, msgInternal))
	}
}
