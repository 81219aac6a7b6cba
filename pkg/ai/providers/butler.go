package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"airbutler/pkg/ai"
	"airbutler/pkg/logging"

	"github.com/google/uuid"
)

const butlerChatPath = "/butler/chat"

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderButler,
		Name:        "Butler",
		Description: "Site butler endpoint (POST {api_base}/butler/chat)",
		RequiresKey: false,
	}, NewButlerProvider)
}

type butlerRequest struct {
	Message string           `json:"message"`
	History []ai.ChatMessage `json:"history"`
}

type butlerResponse struct {
	Response *string `json:"response"`
}

// ButlerProvider talks to the site's own chat endpoint.
type ButlerProvider struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewButlerProvider creates a butler endpoint client from config.
func NewButlerProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.Config.APIBase), "/")
	if base == "" {
		return nil, fmt.Errorf("butler api_base is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}

	return &ButlerProvider{
		BaseURL:    base,
		HTTPClient: client,
	}, nil
}

// CreateChatCompletion sends one message plus the capped history. It makes
// exactly one attempt.
func (p *ButlerProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	history := req.History
	if history == nil {
		history = []ai.ChatMessage{}
	}

	jsonData, err := json.Marshal(butlerRequest{Message: req.Message, History: history})
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("marshal butler request: %w", err)
	}

	url := p.BaseURL + butlerChatPath
	requestID := uuid.NewString()
	slog.Debug("butler_request_send",
		"url", url,
		"request_id", requestID,
		"history_count", len(history),
		"request_size", len(jsonData),
	)
	if slog.Default().Enabled(ctx, logging.LevelTrace) {
		slog.Log(ctx, logging.LevelTrace, "butler_request_body", "json", string(jsonData))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("%w: create request: %v", ai.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("%w: %v", ai.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("%w: read response: %v", ai.ErrTransport, err)
	}

	slog.Debug("butler_response_received",
		"request_id", requestID,
		"status_code", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"response_size", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return ai.ChatResponse{}, fmt.Errorf("%w: status %d: %s", ai.ErrStatus, resp.StatusCode, preview)
	}

	var parsed *butlerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ai.ChatResponse{}, fmt.Errorf("%w: %v", ai.ErrMalformed, err)
	}
	if parsed == nil {
		return ai.ChatResponse{}, fmt.Errorf("%w: body is not an object", ai.ErrMalformed)
	}

	content := ""
	if parsed.Response != nil {
		content = *parsed.Response
	}
	return ai.ChatResponse{Content: content}, nil
}

var _ ai.Provider = (*ButlerProvider)(nil)
