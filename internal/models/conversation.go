package models

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ValidRoles is the set of all valid message roles.
var ValidRoles = []Role{
	RoleSystem,
	RoleUser,
	RoleAssistant,
	RoleTool,
}

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ToolCallTypeFunction is the only tool call type the chat loop understands.
const ToolCallTypeFunction = "function"

// Message is one entry of a chat conversation. The client resends the whole
// conversation on every request; nothing is kept server-side.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message asks for at least one tool invocation.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// ToolCall is a model-issued request to run one named tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Args returns the call arguments as raw JSON, substituting an empty object
// when the model sent nothing.
func (tc ToolCall) Args() json.RawMessage {
	if strings.TrimSpace(tc.Function.Arguments) == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(tc.Function.Arguments)
}

// NewToolMessage builds the tool-role reply for a given call.
func NewToolMessage(callID, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: callID,
	}
}
