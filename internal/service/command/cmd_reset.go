package command

import (
	"context"
	"fmt"
)

type SessionResetter interface {
	ClearSession(ctx context.Context, sessionID string) error
}

type ResetCommand struct {
	store     SessionResetter
	formatter *ResponseFormatter
}

func NewResetCommand(store SessionResetter) *ResetCommand {
	return &ResetCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget this conversation"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.store.ClearSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to clear history: %w", err)
	}
	return c.formatter.Success("Conversation cleared"), nil
}
