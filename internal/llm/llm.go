package llm

import (
	"github.com/abys-ai/abys-go/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewClient creates a chat-completion client for the configured backend
func NewClient(cfg config.LLMConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(config)
}
