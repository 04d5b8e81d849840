// Package heygen implements the HTTP client for the avatar video provider.
// The wire contract (payload shape, endpoints, auth headers) is dictated by
// the provider and has to be reproduced exactly.
package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
	"server/internal/metrics"
)

// Provider-side defaults applied when the caller leaves a field unset.
const (
	DefaultAvatarID      = "283a8bced1f841c7a9292a9212019165"
	DefaultVoiceID       = "fc3a1b6d218246d39ff5199ab147d6ee"
	DefaultBackgroundURL = "https://static.heygen.ai/tmp_resource/7fba946a-b927-4bc9-b754-84e28c5546da"
	DefaultTitle         = "Avatar_API_Video"
	DefaultWidth         = 1280
	DefaultHeight        = 720
)

var (
	// ErrMissingAPIKey indicates that the client was configured without credentials.
	ErrMissingAPIKey = errors.New("heygen: api key is required")
	// ErrTimeout indicates the provider did not respond within the bounded window.
	ErrTimeout = errors.New("heygen: request timeout")
	// ErrUnavailable indicates a transport or connection failure.
	ErrUnavailable = errors.New("heygen: service unavailable")
	// ErrMalformedResponse indicates a 2xx body missing the expected fields.
	ErrMalformedResponse = errors.New("heygen: unexpected response shape")
)

// APIError is a non-2xx response from the provider. The raw body is kept for
// logging; callers mirror the status code back when possible.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("heygen: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Options configures the provider client.
type Options struct {
	APIKey          string
	BaseURL         string
	TemplateID      string
	GenerateTimeout time.Duration
	StatusTimeout   time.Duration
	HTTPClient      *http.Client
	Logger          *infra.Logger
}

// Client performs HTTP calls to the provider's template-generation and
// status-lookup endpoints. A single call per operation, no retries.
type Client struct {
	apiKey          string
	baseURL         string
	templateID      string
	generateTimeout time.Duration
	statusTimeout   time.Duration
	httpClient      *http.Client
	logger          *infra.Logger
}

// GenerateRequest captures the inputs for a template-based video generation.
type GenerateRequest struct {
	ScriptText    string
	TemplateID    string
	UseCaptions   bool
	AvatarID      string
	VoiceID       string
	BackgroundURL string
	Title         string
	Width         int
	Height        int
}

// Normalized returns a copy with unset fields replaced by defaults. The
// template falls back to defaultTemplate when the request leaves it empty.
func (r GenerateRequest) Normalized(defaultTemplate string) GenerateRequest {
	out := r
	if strings.TrimSpace(out.TemplateID) == "" {
		out.TemplateID = defaultTemplate
	}
	if strings.TrimSpace(out.AvatarID) == "" {
		out.AvatarID = DefaultAvatarID
	}
	if strings.TrimSpace(out.VoiceID) == "" {
		out.VoiceID = DefaultVoiceID
	}
	if strings.TrimSpace(out.BackgroundURL) == "" {
		out.BackgroundURL = DefaultBackgroundURL
	}
	if strings.TrimSpace(out.Title) == "" {
		out.Title = DefaultTitle
	}
	if out.Width <= 0 {
		out.Width = DefaultWidth
	}
	if out.Height <= 0 {
		out.Height = DefaultHeight
	}
	return out
}

// GenerateResult is the normalized outcome of a generation call.
type GenerateResult struct {
	VideoID    string
	TemplateID string
}

// StatusResult is the provider's view of a video. Optional fields pass
// through unmodified: Duration keeps the provider's literal number and
// CreatedAt the raw JSON value, so re-serialization is byte identical.
type StatusResult struct {
	Status       string
	VideoURL     *string
	CaptionURL   *string
	ThumbnailURL *string
	Duration     json.Number
	CreatedAt    json.RawMessage
	ErrorDetail  string
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type templateVariable struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Properties any    `json:"properties"`
}

type voiceProperties struct {
	VoiceID string  `json:"voice_id"`
	Locale  *string `json:"locale"`
}

type characterProperties struct {
	CharacterID string `json:"character_id"`
	Type        string `json:"type"`
}

type imageProperties struct {
	URL     string  `json:"url"`
	AssetID *string `json:"asset_id"`
	Fit     string  `json:"fit"`
}

type textProperties struct {
	Content string `json:"content"`
}

type templateVariables struct {
	VoiceID       templateVariable `json:"voice_id"`
	AvatarID      templateVariable `json:"avatar_id"`
	BackgroundID  templateVariable `json:"background_id"`
	ScriptContent templateVariable `json:"script_content"`
}

type generatePayload struct {
	Caption       bool              `json:"caption"`
	Dimension     dimension         `json:"dimension"`
	IncludeGIF    bool              `json:"include_gif"`
	Title         string            `json:"title"`
	Variables     templateVariables `json:"variables"`
	EnableSharing bool              `json:"enable_sharing"`
}

type generateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type statusResponse struct {
	Data struct {
		Status       string          `json:"status"`
		VideoURL     *string         `json:"video_url"`
		CaptionURL   *string         `json:"caption_url"`
		ThumbnailURL *string         `json:"thumbnail_url"`
		Duration     json.Number     `json:"duration"`
		CreatedAt    json.RawMessage `json:"created_at"`
		Error        json.RawMessage `json:"error"`
	} `json:"data"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.heygen.com"
	}
	templateID := strings.TrimSpace(opts.TemplateID)
	if templateID == "" {
		templateID = infra.DefaultTemplateID
	}
	generateTimeout := opts.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = 30 * time.Second
	}
	statusTimeout := opts.StatusTimeout
	if statusTimeout <= 0 {
		statusTimeout = 15 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:          strings.TrimSpace(opts.APIKey),
		baseURL:         baseURL,
		templateID:      templateID,
		generateTimeout: generateTimeout,
		statusTimeout:   statusTimeout,
		httpClient:      httpClient,
		logger:          logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// TemplateID returns the configured default template.
func (c *Client) TemplateID() string {
	return c.templateID
}

// GenerateVideo invokes the provider's template generation endpoint once.
func (c *Client) GenerateVideo(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	req = req.Normalized(c.templateID)
	if strings.TrimSpace(req.ScriptText) == "" {
		return nil, errors.New("heygen: script text is required")
	}

	payload := generatePayload{
		Caption:    req.UseCaptions,
		Dimension:  dimension{Width: req.Width, Height: req.Height},
		IncludeGIF: false,
		Title:      req.Title,
		Variables: templateVariables{
			VoiceID: templateVariable{
				Name:       "voice_id",
				Type:       "voice",
				Properties: voiceProperties{VoiceID: req.VoiceID},
			},
			AvatarID: templateVariable{
				Name:       "avatar_id",
				Type:       "character",
				Properties: characterProperties{CharacterID: req.AvatarID, Type: "talking_photo"},
			},
			BackgroundID: templateVariable{
				Name:       "background_id",
				Type:       "image",
				Properties: imageProperties{URL: req.BackgroundURL, Fit: "none"},
			},
			ScriptContent: templateVariable{
				Name:       "script_content",
				Type:       "text",
				Properties: textProperties{Content: req.ScriptText},
			},
		},
		EnableSharing: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("heygen: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v2/template/%s/generate", c.baseURL, url.PathEscape(req.TemplateID))

	callCtx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("heygen: build request: %w", err)
	}
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	raw, err := c.do(httpReq)
	c.observe("generate", start, err)
	if err != nil {
		return nil, err
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("heygen: decode response: %w", ErrMalformedResponse)
	}
	if decoded.Data.VideoID == "" {
		c.logger.Error().Str("operation", "generate").RawJSON("body", compactOrQuote(raw)).Msg("heygen: response missing video_id")
		return nil, fmt.Errorf("heygen: missing data.video_id: %w", ErrMalformedResponse)
	}

	c.logger.Debug().
		Str("template_id", req.TemplateID).
		Str("video_id", decoded.Data.VideoID).
		Msg("heygen: video generation accepted")
	return &GenerateResult{VideoID: decoded.Data.VideoID, TemplateID: req.TemplateID}, nil
}

// VideoStatus invokes the provider's status-lookup endpoint once.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (*StatusResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(videoID) == "" {
		return nil, errors.New("heygen: video id is required")
	}

	endpoint := fmt.Sprintf("%s/v1/video_status.get?video_id=%s", c.baseURL, url.QueryEscape(videoID))

	callCtx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("heygen: build request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	raw, err := c.do(httpReq)
	c.observe("status", start, err)
	if err != nil {
		return nil, err
	}

	var decoded statusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("heygen: decode response: %w", ErrMalformedResponse)
	}
	if decoded.Data.Status == "" {
		c.logger.Error().Str("operation", "status").RawJSON("body", compactOrQuote(raw)).Msg("heygen: response missing status")
		return nil, fmt.Errorf("heygen: missing data.status: %w", ErrMalformedResponse)
	}

	result := &StatusResult{
		Status:       decoded.Data.Status,
		VideoURL:     decoded.Data.VideoURL,
		CaptionURL:   decoded.Data.CaptionURL,
		ThumbnailURL: decoded.Data.ThumbnailURL,
		Duration:     decoded.Data.Duration,
		CreatedAt:    decoded.Data.CreatedAt,
		ErrorDetail:  stringifyDetail(decoded.Data.Error),
	}
	c.logger.Debug().
		Str("video_id", videoID).
		Str("status", result.Status).
		Msg("heygen: video status retrieved")
	return result, nil
}

// do executes the request and returns the raw body on 2xx. Transport
// failures are classified into ErrTimeout / ErrUnavailable, non-2xx into
// *APIError with the raw body preserved for logging.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("heygen: %s %s: %w", req.Method, req.URL.Path, ErrTimeout)
		}
		return nil, fmt.Errorf("heygen: %s %s: %w: %v", req.Method, req.URL.Path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("heygen: read response: %w", ErrTimeout)
		}
		return nil, fmt.Errorf("heygen: read response: %w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", req.URL.Path).
			Str("body", strings.TrimSpace(string(raw))).
			Msg("heygen: provider error")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func (c *Client) observe(operation string, start time.Time, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, ErrTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	metrics.ProviderCalls.WithLabelValues(operation, outcome).Inc()
	metrics.ProviderLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// stringifyDetail flattens the provider's error field, which may be a plain
// string, an object or absent.
func stringifyDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func compactOrQuote(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		quoted, _ := json.Marshal(string(raw))
		return quoted
	}
	return buf.Bytes()
}
