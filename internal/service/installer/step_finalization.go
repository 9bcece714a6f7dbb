package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values and final env var formatting
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	// Signal completion
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.Get("TELEGRAM_TOKEN") != "" {
		state.Set("ENABLE_TELEGRAM", "true")
	} else {
		state.Set("ENABLE_TELEGRAM", "false")
	}

	// without credentials the bot still runs, notifications only get logged
	if state.Get("PUSHOVER_TOKEN") == "" || state.Get("PUSHOVER_USER") == "" {
		state.Set("PUSHOVER_TOKEN", "")
		state.Set("PUSHOVER_USER", "")
		state.Set("PUSHOVER_REQUIRED", "false")
	}

	if state.Get("LLM_MODEL") == "" {
		state.Set("LLM_MODEL", defaultModels[state.Get("LLM_PROVIDER")])
	}

	// default URL is already the config default
	if state.Get("OLLAMA_BASE_URL") == "http://localhost:11434" {
		state.Set("OLLAMA_BASE_URL", "")
	}
}
