package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/memybot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"MEMYBOT_RUNTIME_PATH"`

	// Transport Flags
	EnableWeb      bool `env:"ENABLE_WEB" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Storage
	EnableStore bool `env:"ENABLE_STORE" envDefault:"true"`

	// Conversation
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"30"`
	MaxToolRounds     int `env:"MAX_TOOL_ROUNDS" envDefault:"10"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "memybot.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
