package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// OpenAICompleter implements Completer with the OpenAI chat completions API
// or any OpenAI-compatible endpoint.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewOpenAICompleter creates an OpenAICompleter. An empty baseURL uses the
// public OpenAI endpoint.
func NewOpenAICompleter(apiKey, model, baseURL string, temperature float32, logger *slog.Logger) *OpenAICompleter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (models.Message, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for i := range req.Messages {
		msgs = append(msgs, toOpenAIMessage(&req.Messages[i]))
	}

	var tools []openai.Tool
	for _, t := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Tools:       tools,
		Temperature: c.temperature,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Message{}, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	c.logger.Debug("openai completion",
		"model", resp.Model,
		"finish_reason", choice.FinishReason,
		"tool_calls", len(choice.Message.ToolCalls),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return fromOpenAIMessage(choice.Message), nil
}

func toOpenAIMessage(m *models.Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) models.Message {
	out := models.Message{
		Role:    models.RoleAssistant,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		if tc.Type != "" && tc.Type != openai.ToolTypeFunction {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:   tc.ID,
			Type: models.ToolCallTypeFunction,
			Function: models.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return out
}
