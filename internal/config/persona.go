package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/memybot/pkg/log"
)

const defaultBlurb = "Personal AI assistant trained on my career and experience. Ask about projects, skills, achievements, and more."

type PersonaConfig struct {
	Name            string `env:"ME_NAME,required,notEmpty"`
	Blurb           string `env:"ME_BLURB"`
	ResumePath      string `env:"ME_RESUME_PATH" envDefault:"me/resume.pdf"`
	SummaryPath     string `env:"ME_SUMMARY_PATH" envDefault:"me/summary.txt"`
	PromptTokenWarn int    `env:"PROMPT_TOKEN_WARN" envDefault:"12000"`
}

func NewPersonaConfig(ctx context.Context) *PersonaConfig {
	c, err := ParsePersonaConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Persona config")
	}
	return c
}

func ParsePersonaConfig() (*PersonaConfig, error) {
	c := &PersonaConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Blurb == "" {
		c.Blurb = defaultBlurb
	}
	return c, nil
}
