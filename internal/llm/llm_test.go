package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicCompleteSendsMessagesRequest(t *testing.T) {
	var captured map[string]any
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"SELECT 1"}]}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicClient() error = %v", err)
	}

	text, err := client.Complete(context.Background(), Request{System: "be terse", User: "one row"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "SELECT 1" {
		t.Fatalf("Complete() = %q", text)
	}
	if headers.Get("x-api-key") != "test-key" {
		t.Fatalf("x-api-key = %q", headers.Get("x-api-key"))
	}
	if headers.Get("anthropic-version") != anthropicVersion {
		t.Fatalf("anthropic-version = %q", headers.Get("anthropic-version"))
	}
	if captured["system"] != "be terse" {
		t.Fatalf("system = %v", captured["system"])
	}
	if captured["temperature"] != float64(0) {
		t.Fatalf("temperature = %v", captured["temperature"])
	}
	if captured["model"] != "claude-sonnet-4-20250514" {
		t.Fatalf("model = %v", captured["model"])
	}
}

func TestAnthropicCompleteSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicClient() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), Request{User: "q"}); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestAnthropicCompleteRejectsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicClient() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), Request{User: "q"}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestOpenAICompleteSendsChatRequest(t *testing.T) {
	var captured map[string]any
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"forty-two"}}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "gpt-5-mini"})
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}

	text, err := client.Complete(context.Background(), Request{System: "analyst", User: "answer"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "forty-two" {
		t.Fatalf("Complete() = %q", text)
	}
	if authHeader != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", authHeader)
	}
	if captured["model"] != "gpt-5-mini" {
		t.Fatalf("model = %v", captured["model"])
	}
	if captured["temperature"] != float64(0) {
		t.Fatalf("temperature = %v", captured["temperature"])
	}
}

func TestNewSelectsProvider(t *testing.T) {
	completer, err := New(Config{Provider: "anthropic", APIKey: "k"})
	if err != nil {
		t.Fatalf("New(anthropic) error = %v", err)
	}
	if _, ok := completer.(*AnthropicClient); !ok {
		t.Fatalf("New(anthropic) = %T", completer)
	}

	completer, err = New(Config{Provider: "OpenAI", APIKey: "k"})
	if err != nil {
		t.Fatalf("New(openai) error = %v", err)
	}
	if _, ok := completer.(*OpenAIClient); !ok {
		t.Fatalf("New(openai) = %T", completer)
	}

	if _, err := New(Config{Provider: "mystery", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{Provider: "anthropic"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
