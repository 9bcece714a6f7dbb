package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/pkg/log"
)

type PromptSource interface {
	SystemPrompt() string
}

// Exchange is the outcome of one user turn.
type Exchange struct {
	Reply string
	// Turns holds every message produced during the exchange, starting with
	// the user turn. Tool-call turns are always followed by their results.
	Turns []core.Message
	// Rounds is the number of tool rounds that ran.
	Rounds int
}

type Agent struct {
	ai        core.AIProvider
	tools     core.ToolRegistry
	persona   PromptSource
	executor  *Executor
	metrics   *observability.Metrics
	maxRounds int
}

func NewAgent(
	appCfg *config.AppConfig,
	ai core.AIProvider,
	tools core.ToolRegistry,
	persona PromptSource,
	metrics *observability.Metrics,
) *Agent {
	return &Agent{
		ai:        ai,
		tools:     tools,
		persona:   persona,
		executor:  NewExecutor(tools, metrics),
		metrics:   metrics,
		maxRounds: appCfg.MaxToolRounds,
	}
}

// Chat answers message given the prior conversation.
func (a *Agent) Chat(ctx context.Context, message string, history []core.Message) (string, error) {
	ex, err := a.Converse(ctx, message, history)
	return ex.Reply, err
}

// Converse runs the tool-resolution loop for one user turn.
//
// When the model keeps asking for tools past the round limit the loop stops
// with core.ErrToolRoundsExceeded. The returned Exchange then carries the
// last non-empty assistant content seen, which may be empty.
func (a *Agent) Converse(ctx context.Context, message string, history []core.Message) (Exchange, error) {
	logger := log.FromCtx(ctx)

	userMsg := core.Message{Role: core.RoleUser, Content: message}

	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: a.persona.SystemPrompt()})
	messages = append(messages, sanitizeToolCalls(ctx, history)...)
	messages = append(messages, userMsg)

	ex := Exchange{Turns: []core.Message{userMsg}}
	tools := a.tools.Definitions()

	var lastContent string

	for {
		start := time.Now()
		completion, err := a.ai.Chat(ctx, messages, tools)
		a.metrics.ObserveCompletionLatency(time.Since(start))
		if err != nil {
			ex.Reply = lastContent
			return ex, fmt.Errorf("ai chat error: %w", err)
		}

		responseMsg := completion.Message
		responseMsg.Role = core.RoleAssistant

		if responseMsg.Content != "" {
			lastContent = responseMsg.Content
		}

		if !completion.WantsTools() || len(responseMsg.ToolCalls) == 0 {
			responseMsg.ToolCalls = nil
			ex.Turns = append(ex.Turns, responseMsg)
			ex.Reply = responseMsg.Content
			logger.Debug().
				Int("rounds", ex.Rounds).
				Str("finish_reason", completion.FinishReason).
				Msg("conversation turn complete")
			return ex, nil
		}

		if a.maxRounds > 0 && ex.Rounds >= a.maxRounds {
			logger.Warn().
				Int("rounds", ex.Rounds).
				Int("pending_calls", len(responseMsg.ToolCalls)).
				Msg("tool round limit reached")
			ex.Reply = lastContent
			return ex, fmt.Errorf("%w: limit %d", core.ErrToolRoundsExceeded, a.maxRounds)
		}

		// the assistant turn and its results go in together so the next call
		// never sees an unanswered tool call
		results := a.executor.Execute(ctx, responseMsg.ToolCalls)
		messages = append(messages, responseMsg)
		messages = append(messages, results...)
		ex.Turns = append(ex.Turns, responseMsg)
		ex.Turns = append(ex.Turns, results...)
		ex.Rounds++
	}
}

// IsRoundsExceeded reports whether err came from hitting the tool round limit.
func IsRoundsExceeded(err error) bool {
	return errors.Is(err, core.ErrToolRoundsExceeded)
}
