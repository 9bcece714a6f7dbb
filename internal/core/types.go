package core

import "encoding/json"

const (
	AppName          = "MeMyBot"
	AppUserAgent     = "MeMyBot/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/memybot"
	AppVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
	FinishLength    = "length"
)

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Completion is a single response of the chat-completion API.
type Completion struct {
	Message      Message
	FinishReason string
}

// WantsTools reports whether the model asked the client to run tools.
// Some OpenAI-compatible servers answer "stop" while still carrying tool calls.
func (c Completion) WantsTools() bool {
	return c.FinishReason == FinishToolCalls || len(c.Message.ToolCalls) > 0
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}
