package core

import (
	"context"
	"encoding/json"
)

type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Completion, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type ToolRegistry interface {
	Definitions() []Tool
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

type Chatter interface {
	Chat(ctx context.Context, message string, history []Message) (string, error)
}
