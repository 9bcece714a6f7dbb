package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/pkg/log"
)

// unknownToolResult is what the model sees for a tool that does not exist.
const unknownToolResult = "{}"

type Executor struct {
	tools   core.ToolRegistry
	metrics *observability.Metrics
}

func NewExecutor(tools core.ToolRegistry, metrics *observability.Metrics) *Executor {
	return &Executor{
		tools:   tools,
		metrics: metrics,
	}
}

// Execute runs every call and returns one tool turn per call, in order.
func (e *Executor) Execute(ctx context.Context, toolCalls []core.ToolCall) []core.Message {
	results := make([]core.Message, 0, len(toolCalls))
	for _, tc := range toolCalls {
		results = append(results, core.Message{
			Role:       core.RoleTool,
			Content:    e.truncate(e.run(ctx, tc)),
			ToolCallID: tc.ID,
		})
	}
	return results
}

func (e *Executor) run(ctx context.Context, tc core.ToolCall) string {
	logger := log.FromCtx(ctx).With().
		Str("tool", tc.Function.Name).
		Str("call_id", tc.ID).
		Logger()

	logger.Info().Msg("executing tool")

	res, err := e.tools.Call(ctx, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
	switch {
	case err == nil:
		e.metrics.ToolCall(tc.Function.Name, observability.OutcomeOK)
		return res

	case errors.Is(err, core.ErrUnknownTool):
		logger.Warn().Msg("model requested unknown tool")
		e.metrics.ToolCall(tc.Function.Name, observability.OutcomeUnknown)
		return unknownToolResult

	case errors.Is(err, core.ErrInvalidArguments):
		logger.Warn().Err(err).Str("arguments", tc.Function.Arguments).Msg("invalid tool arguments")
		e.metrics.ToolCall(tc.Function.Name, observability.OutcomeInvalid)
		return errorResult(err)

	default:
		logger.Error().Err(err).Msg("tool failed")
		e.metrics.ToolCall(tc.Function.Name, observability.OutcomeError)
		return errorResult(err)
	}
}

func errorResult(err error) string {
	out, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(out)
}

func (e *Executor) truncate(input string) string {
	const maxLen = 2000
	if len(input) <= maxLen {
		return input
	}

	head := input[:500]
	tail := input[len(input)-(maxLen-500):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-maxLen, tail)
}
