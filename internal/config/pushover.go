package config

import (
	"context"
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/memybot/pkg/log"
)

type PushoverConfig struct {
	Token    string `env:"PUSHOVER_TOKEN"`
	User     string `env:"PUSHOVER_USER"`
	URL      string `env:"PUSHOVER_URL" envDefault:"https://api.pushover.net/1/messages.json"`
	Required bool   `env:"PUSHOVER_REQUIRED" envDefault:"true"`
}

func NewPushoverConfig(ctx context.Context) *PushoverConfig {
	c, err := ParsePushoverConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Pushover config")
	}
	return c
}

func ParsePushoverConfig() (*PushoverConfig, error) {
	c := &PushoverConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Required && !c.Enabled() {
		return nil, errors.New("PUSHOVER_TOKEN and PUSHOVER_USER are required (set PUSHOVER_REQUIRED=false to run without notifications)")
	}
	return c, nil
}

func (c PushoverConfig) Enabled() bool {
	return c.Token != "" && c.User != ""
}
