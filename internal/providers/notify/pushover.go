package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/log"
	"github.com/sandevgo/memybot/pkg/retry"
)

const defaultTimeout = 10 * time.Second

// Pushover sends push notifications through https://pushover.net.
type Pushover struct {
	client  *http.Client
	retrier *retry.Retrier
	url     string
	token   string
	user    string
}

func NewPushover(cfg *config.PushoverConfig, retryCfg *retry.Config) *Pushover {
	if retryCfg == nil {
		retryCfg = &retry.Config{
			MaxRetries:    2,
			BackoffFactor: 2,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			Jitter:        100 * time.Millisecond,
		}
	}
	return &Pushover{
		client:  &http.Client{Timeout: defaultTimeout},
		retrier: retry.NewRetrier(retryCfg),
		url:     cfg.URL,
		token:   cfg.Token,
		user:    cfg.User,
	}
}

// Notify posts text as a message. Network errors, 429 and 5xx are retried,
// other rejections fail immediately. Every failure wraps core.ErrNotifyFailed.
func (p *Pushover) Notify(ctx context.Context, text string) error {
	form := url.Values{
		"token":   {p.token},
		"user":    {p.user},
		"message": {text},
	}

	err := p.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(form.Encode()))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", core.AppUserAgent)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return statusErr
		}
		return retry.Permanent(statusErr)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrNotifyFailed, err)
	}

	log.FromCtx(ctx).Debug().Int("len", len(text)).Msg("push notification sent")
	return nil
}

// Noop only logs. Used when no Pushover credentials are configured.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Notify(ctx context.Context, text string) error {
	log.FromCtx(ctx).Info().Str("message", text).Msg("notification (pushover disabled)")
	return nil
}

// New picks Pushover when credentials exist, Noop otherwise.
func New(cfg *config.PushoverConfig) core.Notifier {
	if cfg.Enabled() {
		return NewPushover(cfg, nil)
	}
	return NewNoop()
}
