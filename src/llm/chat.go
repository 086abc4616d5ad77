package llm

import (
	"context"
	"fmt"

	"travel_dialogue_engine/src/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	ollamaapi "github.com/ollama/ollama/api"
)

// NewChatModel builds the chat model for the configured provider. The
// openai provider is the default and also covers OpenAI-compatible
// endpoints such as OpenRouter via BaseURL.
func NewChatModel(ctx context.Context, config model.ChatModelConfig) (einomodel.BaseChatModel, error) {
	switch config.Provider {
	case "", "openai":
		maxTokens := config.MaxTokens
		temperature := float32(config.Temperature)
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %v", err)
		}
		return chatModel, nil

	case "ark":
		maxTokens := config.MaxTokens
		temperature := float32(config.Temperature)
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %v", err)
		}
		return chatModel, nil

	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: float32(config.Temperature),
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %v", err)
		}
		return chatModel, nil

	case "ollama":
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Options: &ollamaapi.Options{
				Temperature: float32(config.Temperature),
				NumPredict:  config.MaxTokens,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %v", err)
		}
		return chatModel, nil

	default:
		return nil, fmt.Errorf("unknown chat model provider: %s", config.Provider)
	}
}
