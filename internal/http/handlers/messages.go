package handlers

import (
	"net/http"

	"server/internal/middleware"
)

// Message keys for the small caller-facing catalog. Only human-readable
// strings are localized; field names and status values stay as-is.
const (
	msgRunning            = "running"
	msgNotConfigured      = "not_configured"
	msgGenerationStarted  = "generation_started"
	msgEstimatedTime      = "estimated_time"
	msgInvalidPayload     = "invalid_payload"
	msgMissingTarget      = "missing_target"
	msgRequestNotFound    = "request_not_found"
	msgProviderTimeout    = "provider_timeout"
	msgProviderUnavail    = "provider_unavailable"
	msgProviderErrorFmt   = "provider_error"
	msgUnexpectedResponse = "unexpected_response"
	msgInternal           = "internal"
	msgStatusFmt          = "status"
	msgFailedFmt          = "failed"
	msgUnknownError       = "unknown_error"
)

var catalog = map[string]map[string]string{
	"en": {
		msgRunning:            "Avatar video gateway is running",
		msgNotConfigured:      "Service not configured. Please set HEYGEN_API_KEY environment variable.",
		msgGenerationStarted:  "Video generation initiated successfully",
		msgEstimatedTime:      "2-5 minutes",
		msgInvalidPayload:     "invalid request payload",
		msgMissingTarget:      "either request_id or video_id must be provided",
		msgRequestNotFound:    "request not found",
		msgProviderTimeout:    "video provider did not respond in time",
		msgProviderUnavail:    "video provider is unreachable",
		msgProviderErrorFmt:   "video provider returned an error (status %d)",
		msgUnexpectedResponse: "unexpected response from video provider",
		msgInternal:           "internal server error",
		msgStatusFmt:          "Video status: %s",
		msgFailedFmt:          "Video generation failed: %s",
		msgUnknownError:       "unknown error",
	},
	"id": {
		msgRunning:            "Gateway video avatar sedang berjalan",
		msgNotConfigured:      "Layanan belum dikonfigurasi. Setel variabel lingkungan HEYGEN_API_KEY.",
		msgGenerationStarted:  "Pembuatan video berhasil dimulai",
		msgEstimatedTime:      "2-5 menit",
		msgInvalidPayload:     "payload permintaan tidak valid",
		msgMissingTarget:      "request_id atau video_id harus diisi",
		msgRequestNotFound:    "permintaan tidak ditemukan",
		msgProviderTimeout:    "penyedia video tidak merespons tepat waktu",
		msgProviderUnavail:    "penyedia video tidak dapat dihubungi",
		msgProviderErrorFmt:   "penyedia video mengembalikan kesalahan (status %d)",
		msgUnexpectedResponse: "respons tidak terduga dari penyedia video",
		msgInternal:           "kesalahan server internal",
		msgStatusFmt:          "Status video: %s",
		msgFailedFmt:          "Pembuatan video gagal: %s",
		msgUnknownError:       "kesalahan tidak diketahui",
	},
}

func (a *App) msg(r *http.Request, key string) string {
	locale := middleware.LocaleFromContext(r.Context())
	if m, ok := catalog[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return catalog["en"][key]
}
