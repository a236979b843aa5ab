package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/campus-advisor/internal/config"
	"github.com/ajitpratap0/campus-advisor/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var assignmentsTool = Tool{
	Name:        "get_assignments",
	Description: "Get current assignments.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"course": map[string]any{"type": "string"},
		},
	},
}

func conversationWithToolRound() []models.Message {
	return []models.Message{
		{Role: models.RoleSystem, Content: "be helpful"},
		{Role: models.RoleUser, Content: "math homework?"},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{ID: "call_1", Type: models.ToolCallTypeFunction, Function: models.FunctionCall{Name: "get_assignments", Arguments: `{"course":"math"}`}},
			{ID: "call_2", Type: models.ToolCallTypeFunction, Function: models.FunctionCall{Name: "get_assignments", Arguments: ""}},
		}},
		models.NewToolMessage("call_1", `[{"assignment":"HW 7"}]`),
		models.NewToolMessage("call_2", `[]`),
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	return body
}

func TestOpenAICompleter_ToolCallRoundTrip(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_9",
						"type": "function",
						"function": {"name": "get_teacher_ratings", "arguments": "{\"teacher_name\":\"Riley\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "gpt-4o", srv.URL, 0.7, quietLogger())
	reply, err := c.Complete(context.Background(), Request{
		Messages: conversationWithToolRound(),
		Tools:    []Tool{assignmentsTool},
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleAssistant, reply.Role)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "call_9", reply.ToolCalls[0].ID)
	assert.Equal(t, "get_teacher_ratings", reply.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"teacher_name":"Riley"}`, reply.ToolCalls[0].Function.Arguments)

	require.NotNil(t, body)
	assert.Equal(t, "gpt-4o", body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 5)
	last, ok := msgs[4].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tool", last["role"])
	assert.Equal(t, "call_2", last["tool_call_id"])
	toolsSent, ok := body["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, toolsSent, 1)
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","choices":[]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "gpt-4o", srv.URL, 0.7, quietLogger())
	_, err := c.Complete(context.Background(), Request{Messages: []models.Message{{Role: models.RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAICompleter_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "gpt-4o", srv.URL, 0.7, quietLogger())
	_, err := c.Complete(context.Background(), Request{Messages: []models.Message{{Role: models.RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestAnthropicCompleter_ToolUseRoundTrip(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		body = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_use", "id": "toolu_1", "name": "get_assignments", "input": {"course": "math"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`)
	}))
	defer srv.Close()

	c := NewAnthropicCompleter("sk-ant-test", "claude-sonnet-4-5", 0, 0.7, quietLogger(),
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	reply, err := c.Complete(context.Background(), Request{
		Messages: conversationWithToolRound(),
		Tools:    []Tool{assignmentsTool},
	})
	require.NoError(t, err)

	assert.Equal(t, "Let me check.", reply.Content)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "toolu_1", reply.ToolCalls[0].ID)
	assert.Equal(t, "get_assignments", reply.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"course":"math"}`, reply.ToolCalls[0].Function.Arguments)

	require.NotNil(t, body)
	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	// user, assistant (two tool_use blocks), user (two tool_result blocks)
	require.Len(t, msgs, 3)
	toolsSent, ok := body["tools"].([]any)
	require.True(t, ok)
	require.Len(t, toolsSent, 1)
	first, ok := toolsSent[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "get_assignments", first["name"])
}

func TestAnthropicCompleter_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_2","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`)
	}))
	defer srv.Close()

	c := NewAnthropicCompleter("k", "m", 256, 0, quietLogger(), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	_, err := c.Complete(context.Background(), Request{Messages: []models.Message{{Role: models.RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestToAnthropicMessages_GroupsToolResults(t *testing.T) {
	system, msgs, err := toAnthropicMessages(conversationWithToolRound())
	require.NoError(t, err)

	require.Len(t, system, 1)
	assert.Equal(t, "be helpful", system[0].Text)

	require.Len(t, msgs, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 2)
	require.NotNil(t, msgs[1].Content[0].OfToolUse)
	assert.Equal(t, "call_1", msgs[1].Content[0].OfToolUse.ID)

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.Len(t, msgs[2].Content, 2)
	require.NotNil(t, msgs[2].Content[0].OfToolResult)
	assert.Equal(t, "call_1", msgs[2].Content[0].OfToolResult.ToolUseID)
	require.NotNil(t, msgs[2].Content[1].OfToolResult)
	assert.Equal(t, "call_2", msgs[2].Content[1].OfToolResult.ToolUseID)
}

func TestToAnthropicMessages_RejectsBadArguments(t *testing.T) {
	_, _, err := toAnthropicMessages([]models.Message{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{ID: "c", Function: models.FunctionCall{Name: "x", Arguments: "{not json"}},
		}},
	})
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		provider string
		wantType any
		wantErr  bool
	}{
		{"openai", &OpenAICompleter{}, false},
		{"", &OpenAICompleter{}, false},
		{"anthropic", &AnthropicCompleter{}, false},
		{"ollama", &OpenAICompleter{}, false},
		{"bard", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewCompleter(config.LLMConfig{
				Provider: tt.provider,
				Model:    "m",
				BaseURL:  "http://localhost:11434",
			}, quietLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, c)
		})
	}
}

func TestNewCompleter_DefaultModelFollowsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"", DefaultOpenAIModel},
		{"openai", DefaultOpenAIModel},
		{"anthropic", DefaultAnthropicModel},
		{"Claude", DefaultAnthropicModel},
		{"ollama", DefaultOllamaModel},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewCompleter(config.LLMConfig{Provider: tt.provider, BaseURL: "http://localhost:11434"}, quietLogger())
			require.NoError(t, err)
			switch got := c.(type) {
			case *OpenAICompleter:
				assert.Equal(t, tt.want, got.model)
			case *AnthropicCompleter:
				assert.Equal(t, tt.want, got.model)
			default:
				t.Fatalf("unexpected completer %T", c)
			}
		})
	}
}

func TestNewCompleter_ExplicitModelWins(t *testing.T) {
	c, err := NewCompleter(config.LLMConfig{Provider: "anthropic", Model: "claude-sonnet-4-5"}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", c.(*AnthropicCompleter).model)
	assert.Empty(t, DefaultModel("bard"))
}
