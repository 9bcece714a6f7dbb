package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/providers/llm"
)

var defaultModels = map[string]string{
	"openai":     "gpt-4o-mini",
	"openrouter": "openai/gpt-4o-mini",
	"ollama":     "llama3.1",
	"custom":     "gpt-4o-mini",
}

// ModelStep lets the user pick one of the models the provider serves.
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func providerConfigFromState(state *InstallState) *config.ProviderConfig {
	return &config.ProviderConfig{
		Provider:            state.Get("LLM_PROVIDER"),
		OpenAIAPIKey:        state.Get("OPENAI_API_KEY"),
		OpenRouterAPIKey:    state.Get("OPENROUTER_API_KEY"),
		OllamaBaseURL:       state.Get("OLLAMA_BASE_URL"),
		OllamaAPIKey:        state.Get("OLLAMA_API_KEY"),
		CustomOpenAIBaseURL: state.Get("CUSTOM_OPENAI_BASE_URL"),
		CustomOpenAIAPIKey:  state.Get("CUSTOM_OPENAI_API_KEY"),
	}
}

func fetchModels(cfg *config.ProviderConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p, err := llm.NewProvider(ctx, cfg)
		if err != nil {
			return errMsg(err)
		}
		models, err := p.Models(ctx)
		if err != nil {
			return errMsg(err)
		}

		var items []list.Item
		for _, mod := range models {
			desc := fmt.Sprintf("ID: %s", mod.ID)
			if mod.ContextLength > 0 {
				desc = fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength)
			}
			title := mod.Name
			if title == "" {
				title = mod.ID
			}
			items = append(items, item{id: mod.ID, title: title, desc: desc})
		}
		return modelsMsg(items)
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// 1. Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true
		return s, fetchModels(providerConfigFromState(state))
	}

	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		if len(msg) == 0 {
			s.err = fmt.Errorf("provider returned no models")
		}
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil // Return nil command to break the error loop

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				state.Set("LLM_MODEL", defaultModels[state.Get("LLM_PROVIDER")])
				return nil, nil
			case "r":
				s.err = nil
				s.loading = true
				s.fetching = false
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.Set("LLM_MODEL", i.id)
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			fmt.Sprintf("\n\nPress enter to use %s, r to retry, ctrl+c to quit.\n", defaultModels[state.Get("LLM_PROVIDER")])
	}
	if s.loading {
		return fmt.Sprintf("Fetching models from %s...\n", state.Get("LLM_PROVIDER"))
	}
	return s.list.View()
}
