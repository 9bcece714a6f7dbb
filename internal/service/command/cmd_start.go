package command

import (
	"context"
	"fmt"
	"strings"
)

type StartCommand struct {
	name string
}

func NewStartCommand(personaName string) *StartCommand {
	return &StartCommand{name: personaName}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Say hello"
}

func (c *StartCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	first := c.name
	if fields := strings.Fields(c.name); len(fields) > 0 {
		first = fields[0]
	}
	return fmt.Sprintf(
		"👋 Hi, I'm %s.\n\nAsk me anything about my career, background, skills and experience. "+
			"If you'd like to get in touch, just leave your email.",
		first,
	), nil
}
