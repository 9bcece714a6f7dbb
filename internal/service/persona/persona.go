package persona

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/providers/document"
	"github.com/sandevgo/memybot/pkg/log"
)

// Persona is the person the bot speaks for. It is loaded once and shared
// read-only by every session.
type Persona struct {
	Name    string
	Blurb   string
	Summary string
	Resume  string

	prompt string
}

func New(name, blurb, summary, resume string) *Persona {
	p := &Persona{
		Name:    name,
		Blurb:   blurb,
		Summary: summary,
		Resume:  resume,
	}
	p.prompt = p.buildSystemPrompt()
	return p
}

// Load reads the resume and summary documents named in cfg.
func Load(ctx context.Context, cfg *config.PersonaConfig) (*Persona, error) {
	logger := log.FromCtx(ctx)

	resume, err := document.ExtractText(ctx, cfg.ResumePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	summary, err := document.ExtractText(ctx, cfg.SummaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}

	p := New(cfg.Name, cfg.Blurb, summary, resume)

	tokens, err := CountTokens(p.prompt)
	if err != nil {
		logger.Warn().Err(err).Msg("prompt token count unavailable")
		return p, nil
	}

	event := logger.Info()
	if cfg.PromptTokenWarn > 0 && tokens > cfg.PromptTokenWarn {
		event = logger.Warn().Int("limit", cfg.PromptTokenWarn)
	}
	event.
		Str("name", p.Name).
		Int("resume_chars", len(resume)).
		Int("summary_chars", len(summary)).
		Int("prompt_tokens", tokens).
		Msg("persona loaded")

	return p, nil
}

func (p *Persona) SystemPrompt() string {
	return p.prompt
}

func (p *Persona) buildSystemPrompt() string {
	name := p.Name

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are acting as %s. You are answering questions on %s's website, ", name, name)
	fmt.Fprintf(&sb, "particularly questions related to %s's career, background, skills and experience. ", name)
	fmt.Fprintf(&sb, "Your responsibility is to represent %s for interactions on the website as faithfully as possible. ", name)
	fmt.Fprintf(&sb, "You are given a summary of %s's background and LinkedIn profile which you can use to answer questions. ", name)
	sb.WriteString("Be professional and engaging, as if talking to a potential client or future employer who came across the website. ")
	sb.WriteString("If you don't know the answer to any question, use your record_unknown_question tool to record the question that you couldn't answer, even if it's about something trivial or unrelated to career. ")
	sb.WriteString("If the user is engaging in discussion, try to steer them towards getting in touch via email; ask for their email and record it using your record_user_details tool.")

	fmt.Fprintf(&sb, "\n\n## Summary:\n%s\n\n## LinkedIn Profile:\n%s\n\n", p.Summary, p.Resume)
	fmt.Fprintf(&sb, "With this context, please chat with the user, always staying in character as %s.", name)

	return sb.String()
}

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// CountTokens reports the cl100k_base token length of text.
func CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	enc, err := getTokenizer()
	if err != nil {
		return 0, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return len(enc.Encode(text, nil, nil)), nil
}
