package core

import "context"

// Command is a slash command handled without calling the model.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
