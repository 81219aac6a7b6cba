package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"airbutler/pkg/ai"
	"airbutler/pkg/config"

	"github.com/google/uuid"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripperFunc) *http.Client {
	return &http.Client{Transport: rt}
}

func newHTTPResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	resp := &http.Response{
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

func newJSONResponse(t *testing.T, req *http.Request, status int, payload any) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return newHTTPResponse(req, status, "application/json", data)
}

func newButler(t *testing.T, rt roundTripperFunc) ai.Provider {
	t.Helper()
	cfg := config.Default()
	cfg.APIBase = "https://shop.test/api/"
	p, err := NewButlerProvider(ai.ProviderConfig{
		Type:       ai.ProviderButler,
		Config:     cfg,
		HTTPClient: newTestClient(rt),
	})
	if err != nil {
		t.Fatalf("NewButlerProvider() error: %v", err)
	}
	return p
}

func TestButlerProvider_CreateChatCompletion(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotRequestID string
	var gotPayload struct {
		Message string           `json:"message"`
		History []ai.ChatMessage `json:"history"`
	}

	p := newButler(t, func(req *http.Request) (*http.Response, error) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		gotContentType = req.Header.Get("Content-Type")
		gotRequestID = req.Header.Get("X-Request-ID")
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_ = req.Body.Close()
		return newJSONResponse(t, req, http.StatusOK, map[string]any{"response": "您好"}), nil
	})

	history := []ai.ChatMessage{
		{Role: ai.RoleAssistant, Content: "欢迎"},
		{Role: ai.RoleUser, Content: "价格"},
	}
	resp, err := p.CreateChatCompletion(context.Background(), ai.ChatRequest{Message: "价格", History: history})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}

	if resp.Content != "您好" {
		t.Fatalf("Expected content '您好', got %q", resp.Content)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("Expected POST, got %s", gotMethod)
	}
	if gotPath != "/api/butler/chat" {
		t.Fatalf("Expected path '/api/butler/chat', got %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Expected JSON content type, got %q", gotContentType)
	}
	if _, err := uuid.Parse(gotRequestID); err != nil {
		t.Fatalf("Expected a UUID request id, got %q", gotRequestID)
	}
	if gotPayload.Message != "价格" {
		t.Fatalf("Expected message '价格', got %q", gotPayload.Message)
	}
	if len(gotPayload.History) != 2 || gotPayload.History[0].Role != ai.RoleAssistant {
		t.Fatalf("Unexpected history payload: %+v", gotPayload.History)
	}
}

func TestButlerProvider_EmptyHistoryIsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	p := newButler(t, func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return newJSONResponse(t, req, http.StatusOK, map[string]any{}), nil
	})

	resp, err := p.CreateChatCompletion(context.Background(), ai.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}
	if string(raw["history"]) != "[]" {
		t.Fatalf("Expected history '[]', got %s", raw["history"])
	}
	if resp.Content != "" {
		t.Fatalf("Expected empty content for absent response field, got %q", resp.Content)
	}
}

func TestButlerProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rt      roundTripperFunc
		wantErr error
	}{
		{
			name: "transport",
			rt: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantErr: ai.ErrTransport,
		},
		{
			name: "server error",
			rt: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(req, http.StatusInternalServerError, "text/plain", []byte("boom")), nil
			},
			wantErr: ai.ErrStatus,
		},
		{
			name: "not found",
			rt: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(req, http.StatusNotFound, "application/json", []byte(`{"response":"x"}`)), nil
			},
			wantErr: ai.ErrStatus,
		},
		{
			name: "html body",
			rt: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(req, http.StatusOK, "text/html", []byte("<html></html>")), nil
			},
			wantErr: ai.ErrMalformed,
		},
		{
			name: "wrong response type",
			rt: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(req, http.StatusOK, "application/json", []byte(`{"response":42}`)), nil
			},
			wantErr: ai.ErrMalformed,
		},
		{
			name: "null body",
			rt: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(req, http.StatusOK, "application/json", []byte("null")), nil
			},
			wantErr: ai.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newButler(t, tt.rt)
			_, err := p.CreateChatCompletion(context.Background(), ai.ChatRequest{Message: "甲醛"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewButlerProvider_RequiresBase(t *testing.T) {
	cfg := config.Default()
	cfg.APIBase = " "
	if _, err := NewButlerProvider(ai.ProviderConfig{Type: ai.ProviderButler, Config: cfg}); err == nil {
		t.Fatal("Expected error for empty api_base")
	}
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = config.ProviderOpenAI

	_, err := NewOpenAIProvider(ai.ProviderConfig{Type: ai.ProviderOpenAI, Config: cfg})
	if !errors.Is(err, ai.ErrMissingKey) {
		t.Fatalf("Expected ErrMissingKey, got %v", err)
	}
}

func TestOpenAIProvider_CreateChatCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]any

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_ = req.Body.Close()

		return newJSONResponse(t, req, http.StatusOK, map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []any{
				map[string]any{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": "建议选择森林呼吸Pro",
					},
					"finish_reason": "stop",
				},
			},
		}), nil
	})

	cfg := config.Default()
	cfg.OpenAI = config.OpenAIConfig{
		APIKey: "test-key",
		APIURL: "https://gateway.test/v1",
		Model:  "test-model",
	}

	provider, err := NewOpenAIProvider(ai.ProviderConfig{Type: ai.ProviderOpenAI, Config: cfg, HTTPClient: client})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error: %v", err)
	}

	resp, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Message: "装修后用哪款",
		History: []ai.ChatMessage{{Role: ai.RoleUser, Content: "装修后用哪款"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}

	if resp.Content != "建议选择森林呼吸Pro" {
		t.Fatalf("Unexpected content %q", resp.Content)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("Expected path '/v1/chat/completions', got %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Expected Authorization header, got %q", gotAuth)
	}

	messages, ok := gotPayload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected system + user messages, got %v", gotPayload["messages"])
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("Expected system prompt first, got %v", first["role"])
	}
}

func TestOpenAIProvider_ServerErrorIsTransport(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return newJSONResponse(t, req, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"message": "overloaded"},
		}), nil
	})

	cfg := config.Default()
	cfg.OpenAI.APIKey = "test-key"
	provider, err := NewOpenAIProvider(ai.ProviderConfig{Type: ai.ProviderOpenAI, Config: cfg, HTTPClient: client})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error: %v", err)
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{Message: "hi"})
	if !errors.Is(err, ai.ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}
