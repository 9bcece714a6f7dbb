package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/memybot/internal/core"
)

type ToolsCommand struct {
	tools     core.ToolRegistry
	formatter *ResponseFormatter
}

func NewToolsCommand(tools core.ToolRegistry) *ToolsCommand {
	return &ToolsCommand{
		tools:     tools,
		formatter: NewResponseFormatter(),
	}
}

func (c *ToolsCommand) Name() string {
	return "tools"
}

func (c *ToolsCommand) Description() string {
	return "Show the tools the model can use"
}

func (c *ToolsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	var defs []core.Tool
	if c.tools != nil {
		defs = c.tools.Definitions()
	}

	if len(defs) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Tools"),
			c.formatter.Label("Status", "No tools are registered."),
		), nil
	}

	items := make([]string, len(defs))
	for i, tool := range defs {
		description := strings.Join(strings.Fields(tool.Function.Description), " ")
		if len(description) > 120 {
			description = description[:117] + "..."
		}
		items[i] = fmt.Sprintf("**%s**: %s", tool.Function.Name, description)
	}

	return c.formatter.Combine(
		c.formatter.Info("Tools"),
		c.formatter.Label("Registered tools", fmt.Sprintf("%d", len(defs))),
		c.formatter.List(items),
	), nil
}
