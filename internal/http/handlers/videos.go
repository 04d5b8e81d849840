package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/providers/heygen"
	"server/internal/validation"
)

type generateRequest struct {
	ScriptText    string `json:"script_text" validate:"required,min=1,max=5000"`
	TemplateID    string `json:"template_id"`
	UseCaptions   bool   `json:"use_captions"`
	AvatarID      string `json:"avatar_id"`
	VoiceID       string `json:"voice_id"`
	BackgroundURL string `json:"background_url"`
	Title         string `json:"title"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
}

type generateResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RequestID     string `json:"request_id"`
	VideoID       string `json:"video_id,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

type retrieveRequest struct {
	RequestID string `json:"request_id"`
	VideoID   string `json:"video_id"`
}

// retrieveResponse passes the provider's completed-video fields through
// unmodified: Duration keeps the literal number, CreatedAt the raw JSON.
type retrieveResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	RequestID    string          `json:"request_id,omitempty"`
	VideoID      string          `json:"video_id,omitempty"`
	Status       string          `json:"status,omitempty"`
	VideoURL     *string         `json:"video_url,omitempty"`
	CaptionURL   *string         `json:"caption_url,omitempty"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
	Duration     json.Number     `json:"duration,omitempty"`
	CreatedAt    json.RawMessage `json:"created_at,omitempty"`
}

// GenerateVideo validates the caller input, invokes the provider once and
// registers the new request on success. Validation failures and a missing
// credential are rejected before any network call.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	if !a.configured() {
		a.error(w, http.StatusInternalServerError, a.msg(r, msgNotConfigured))
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, a.msg(r, msgInvalidPayload))
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	requestID := uuid.NewString()
	gen := heygen.GenerateRequest{
		ScriptText:    req.ScriptText,
		TemplateID:    req.TemplateID,
		UseCaptions:   req.UseCaptions,
		AvatarID:      req.AvatarID,
		VoiceID:       req.VoiceID,
		BackgroundURL: req.BackgroundURL,
		Title:         req.Title,
		Width:         req.Width,
		Height:        req.Height,
	}.Normalized(a.TemplateID)

	result, err := a.Videos.GenerateVideo(r.Context(), gen)
	if err != nil {
		a.Log.Error().Err(err).Str("request_id", requestID).Msg("video generation failed")
		a.providerError(w, r, err)
		return
	}

	rec := domain.VideoRequest{
		RequestID:   requestID,
		VideoID:     result.VideoID,
		ScriptText:  gen.ScriptText,
		TemplateID:  result.TemplateID,
		UseCaptions: gen.UseCaptions,
		AvatarID:    gen.AvatarID,
		VoiceID:     gen.VoiceID,
		Title:       gen.Title,
		Status:      domain.StatusProcessing,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.Registry.Insert(rec); err != nil {
		a.Log.Error().Err(err).Str("request_id", requestID).Msg("failed to register request")
		a.error(w, http.StatusInternalServerError, a.msg(r, msgInternal))
		return
	}
	metrics.TrackedRequests.Set(float64(a.Registry.Len()))

	a.Log.Info().
		Str("request_id", requestID).
		Str("video_id", result.VideoID).
		Str("template_id", result.TemplateID).
		Msg("video generation initiated")

	a.json(w, http.StatusOK, generateResponse{
		Success:       true,
		Message:       a.msg(r, msgGenerationStarted),
		RequestID:     requestID,
		VideoID:       result.VideoID,
		EstimatedTime: a.msg(r, msgEstimatedTime),
	})
}

// RetrieveVideo resolves the target video from request_id or video_id,
// queries the provider and reflects the latest status into the registry.
// When both ids are supplied, request_id wins.
func (a *App) RetrieveVideo(w http.ResponseWriter, r *http.Request) {
	if !a.configured() {
		a.error(w, http.StatusInternalServerError, a.msg(r, msgNotConfigured))
		return
	}

	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, a.msg(r, msgInvalidPayload))
		return
	}
	if req.RequestID == "" && req.VideoID == "" {
		a.error(w, http.StatusBadRequest, a.msg(r, msgMissingTarget))
		return
	}

	requestID := req.RequestID
	videoID := req.VideoID
	if requestID != "" {
		rec, err := a.Registry.Get(requestID)
		if err != nil {
			a.error(w, http.StatusNotFound, a.msg(r, msgRequestNotFound))
			return
		}
		videoID = rec.VideoID
	} else if rid, err := a.Registry.FindByVideoID(videoID); err == nil {
		// best-effort enrichment; an untracked video id is fine
		requestID = rid
	}

	st, err := a.Videos.VideoStatus(r.Context(), videoID)
	if err != nil {
		a.Log.Error().Err(err).Str("video_id", videoID).Msg("video status lookup failed")
		a.providerError(w, r, err)
		return
	}

	if requestID != "" {
		a.Registry.UpdateStatus(requestID, st.Status, time.Now().UTC())
	}

	resp := retrieveResponse{
		Success:   true,
		Message:   fmt.Sprintf(a.msg(r, msgStatusFmt), st.Status),
		RequestID: requestID,
		VideoID:   videoID,
		Status:    st.Status,
	}
	switch st.Status {
	case domain.StatusCompleted:
		resp.VideoURL = st.VideoURL
		resp.CaptionURL = st.CaptionURL
		resp.ThumbnailURL = st.ThumbnailURL
		resp.Duration = st.Duration
		resp.CreatedAt = st.CreatedAt
	case domain.StatusFailed:
		detail := st.ErrorDetail
		if detail == "" {
			detail = a.msg(r, msgUnknownError)
		}
		resp.Message = fmt.Sprintf(a.msg(r, msgFailedFmt), detail)
	}

	a.Log.Info().
		Str("video_id", videoID).
		Str("status", st.Status).
		Msg("video status retrieved")
	a.json(w, http.StatusOK, resp)
}
