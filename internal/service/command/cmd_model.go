package command

import (
	"context"
)

type ModelInfo interface {
	Model() string
}

type ModelCommand struct {
	provider  string
	model     ModelInfo
	formatter *ResponseFormatter
}

func NewModelCommand(provider string, model ModelInfo) *ModelCommand {
	return &ModelCommand{
		provider:  provider,
		model:     model,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show the model answering"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	model := "unknown"
	if c.model != nil {
		model = c.model.Model()
	}
	return c.formatter.Combine(
		c.formatter.Info("Current Model"),
		c.formatter.Label("Provider", c.provider),
		c.formatter.Label("Model", model),
	), nil
}
