package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/internal/service/agent"
	"github.com/sandevgo/memybot/internal/service/command"
	"github.com/sandevgo/memybot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const (
	replyFailed     = "Sorry, I can't answer right now. Please try again in a moment."
	replyTooComplex = "Sorry, I couldn't finish that answer. Could you rephrase the question?"
)

type Conversation interface {
	Converse(ctx context.Context, message string, history []core.Message) (agent.Exchange, error)
}

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	agent   Conversation
	repo    core.MessagesRepository
	router  *command.Router
	metrics *observability.Metrics
	window  int
}

// NewBot wires a bot for the persona. repo may be nil, in which case every
// message is answered without history.
func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	appCfg *config.AppConfig,
	agent Conversation,
	repo core.MessagesRepository,
	router *command.Router,
	metrics *observability.Metrics,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler error")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		agent:   agent,
		repo:    repo,
		router:  router,
		metrics: metrics,
		window:  appCfg.ContextWindowSize,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	ctx := c.Get(baseContextKey).(context.Context)
	ctx = log.With(ctx, "session", sessionID)
	ctx = core.WithSessionID(ctx, sessionID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply := b.respond(ctx, sessionID, c.Text())
	return b.sender.sendMarkdown(ctx, c.Recipient(), reply, false)
}

// respond produces the markdown answer for one incoming text.
func (b *Bot) respond(ctx context.Context, sessionID, text string) string {
	logger := log.FromCtx(ctx)

	if b.router != nil {
		if out, ok := b.router.Execute(ctx, sessionID, text); ok {
			return out
		}
	}

	var history []core.Message
	if b.repo != nil {
		var err error
		history, err = b.repo.GetMessages(ctx, sessionID, b.window)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load history, answering without it")
			history = nil
		}
	}

	ex, err := b.agent.Converse(ctx, text, history)
	switch {
	case err == nil:
		b.metrics.ChatTurn("telegram", "ok")
	case errors.Is(err, core.ErrToolRoundsExceeded):
		logger.Warn().Err(err).Msg("agent gave up")
		b.metrics.ChatTurn("telegram", "error")
		if ex.Reply == "" {
			ex.Reply = replyTooComplex
		}
	default:
		logger.Error().Err(err).Msg("agent run failed")
		b.metrics.ChatTurn("telegram", "error")
		return replyFailed
	}

	if b.repo != nil {
		if err := b.repo.AddMessages(ctx, sessionID, ex.Turns...); err != nil {
			logger.Error().Err(err).Msg("failed to save exchange")
		}
	}

	return ex.Reply
}
