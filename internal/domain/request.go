package domain

import "time"

// Video status values as reported by the provider. The provider may report
// further strings; these are the ones the gateway reacts to.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// VideoRequest is one generation request tracked by the registry. RequestID
// is minted by the gateway and never changes; VideoID is assigned by the
// provider at creation time and is immutable once set. Only Status and
// LastCheckedAt mutate afterwards, and only on the status-query path.
type VideoRequest struct {
	RequestID     string     `json:"request_id"`
	VideoID       string     `json:"video_id"`
	ScriptText    string     `json:"script_text"`
	TemplateID    string     `json:"template_id"`
	UseCaptions   bool       `json:"use_captions"`
	AvatarID      string     `json:"avatar_id"`
	VoiceID       string     `json:"voice_id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}
