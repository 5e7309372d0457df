package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Request struct {
	System    string
	User      string
	MaxTokens int
}

type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Config struct {
	Provider  string
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

func New(cfg Config) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic":
		return NewAnthropicClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
