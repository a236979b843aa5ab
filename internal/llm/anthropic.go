package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// defaultAnthropicMaxTokens bounds one assistant turn.
const defaultAnthropicMaxTokens = 2048

// AnthropicCompleter implements Completer with the Claude Messages API,
// translating tool_calls/tool messages to tool_use/tool_result blocks.
type AnthropicCompleter struct {
	client      *anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	logger      *slog.Logger
}

// NewAnthropicCompleter creates an AnthropicCompleter. Extra request options
// (base URL, retries) are passed through to the SDK client.
func NewAnthropicCompleter(apiKey, model string, maxTokens int64, temperature float64, logger *slog.Logger, opts ...option.RequestOption) *AnthropicCompleter {
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	c := anthropic.NewClient(opts...)
	return &AnthropicCompleter{
		client:      &c,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (models.Message, error) {
	system, msgs, err := toAnthropicMessages(req.Messages)
	if err != nil {
		return models.Message{}, err
	}

	tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
	for _, t := range req.Tools {
		schema := anthropic.ToolInputSchemaParam{Properties: t.Parameters["properties"]}
		if required, ok := t.Parameters["required"].([]string); ok {
			schema.Required = required
		}
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: schema,
			},
		})
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		System:      system,
		Messages:    msgs,
		Tools:       tools,
		Temperature: anthropic.Float(c.temperature),
	}
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return models.Message{}, fmt.Errorf("anthropic messages: %w", err)
	}

	out := models.Message{Role: models.RoleAssistant}
	var text []string
	for i := range resp.Content {
		block := &resp.Content[i]
		switch block.Type {
		case "text":
			text = append(text, block.Text)
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, models.ToolCall{
				ID:   block.ID,
				Type: models.ToolCallTypeFunction,
				Function: models.FunctionCall{
					Name:      block.Name,
					Arguments: string(block.Input),
				},
			})
		}
	}
	out.Content = strings.Join(text, "\n")
	if out.Content == "" && len(out.ToolCalls) == 0 {
		return models.Message{}, ErrEmptyResponse
	}

	c.logger.Debug("anthropic completion",
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"tool_calls", len(out.ToolCalls),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return out, nil
}

// toAnthropicMessages splits out system text and converts the rest.
// Consecutive tool messages are grouped into one user turn, as the Messages
// API requires every tool_result for a turn in a single message.
func toAnthropicMessages(in []models.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var (
		system        []anthropic.TextBlockParam
		out           []anthropic.MessageParam
		lastWasResult bool
	)
	for i := range in {
		m := &in[i]
		switch m.Role {
		case models.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
			lastWasResult = false

		case models.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			lastWasResult = false

		case models.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				var input any
				if err := json.Unmarshal(tc.Args(), &input); err != nil {
					return nil, nil, fmt.Errorf("decoding arguments of tool call %s: %w", tc.ID, err)
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Function.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
			lastWasResult = false

		case models.RoleTool:
			block := anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)
			if lastWasResult {
				last := &out[len(out)-1]
				last.Content = append(last.Content, block)
				continue
			}
			out = append(out, anthropic.NewUserMessage(block))
			lastWasResult = true

		default:
			return nil, nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return system, out, nil
}
