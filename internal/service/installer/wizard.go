package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Step represents a single step in the installation wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func providerIs(names ...string) func(*InstallState) bool {
	return func(s *InstallState) bool {
		p := s.Get("LLM_PROVIDER")
		for _, n := range names {
			if p == n {
				return true
			}
		}
		return false
	}
}

func not(f func(*InstallState) bool) func(*InstallState) bool {
	return func(s *InstallState) bool { return !f(s) }
}

func getSteps(runtimePath string) []Step {
	return []Step{
		NewInputStep(InputOptions{
			Key:      "ME_NAME",
			Title:    "Your full name (the persona the bot speaks for)",
			Required: true,
		}),
		NewInputStep(InputOptions{
			Key:          "ME_RESUME_PATH",
			Title:        "Path to your resume (PDF, HTML or text)",
			DefaultValue: "me/resume.pdf",
			Validate:     fileExists,
		}),
		NewInputStep(InputOptions{
			Key:          "ME_SUMMARY_PATH",
			Title:        "Path to your summary text",
			DefaultValue: "me/summary.txt",
			Validate:     fileExists,
		}),
		NewChoiceStep("Select your AI Provider:", "LLM_PROVIDER", []Choice{
			{Label: "OpenAI", Value: "openai"},
			{Label: "OpenRouter", Value: "openrouter"},
			{Label: "Ollama", Value: "ollama"},
			{Label: "Custom (OpenAI-compatible)", Value: "custom"},
		}),
		NewInputStep(InputOptions{
			Key:         "OPENAI_API_KEY",
			Title:       "OpenAI API Key",
			Placeholder: "sk-...",
			Secret:      true,
			Required:    true,
			Skip:        not(providerIs("openai")),
		}),
		NewInputStep(InputOptions{
			Key:         "OPENROUTER_API_KEY",
			Title:       "OpenRouter API Key",
			Placeholder: "sk-or-v1-...",
			Secret:      true,
			Required:    true,
			Skip:        not(providerIs("openrouter")),
		}),
		NewInputStep(InputOptions{
			Key:          "OLLAMA_BASE_URL",
			Title:        "Ollama URL",
			DefaultValue: "http://localhost:11434",
			Skip:         not(providerIs("ollama")),
		}),
		NewInputStep(InputOptions{
			Key:         "CUSTOM_OPENAI_BASE_URL",
			Title:       "Base URL of your OpenAI-compatible server",
			Placeholder: "http://localhost:8000",
			Required:    true,
			Skip:        not(providerIs("custom")),
		}),
		NewInputStep(InputOptions{
			Key:    "OLLAMA_API_KEY",
			Title:  "Ollama API Key",
			Secret: true,
			Skip:   not(providerIs("ollama")),
		}),
		NewInputStep(InputOptions{
			Key:    "CUSTOM_OPENAI_API_KEY",
			Title:  "API Key",
			Secret: true,
			Skip:   not(providerIs("custom")),
		}),
		NewModelStep(),
		NewInputStep(InputOptions{
			Key:         "PUSHOVER_TOKEN",
			Title:       "Pushover application token (leave empty to disable notifications)",
			Secret:      true,
			Placeholder: "a1b2c3...",
		}),
		NewInputStep(InputOptions{
			Key:      "PUSHOVER_USER",
			Title:    "Pushover user key",
			Secret:   true,
			Required: true,
			Skip:     func(s *InstallState) bool { return s.Get("PUSHOVER_TOKEN") == "" },
		}),
		NewInputStep(InputOptions{
			Key:         "TELEGRAM_TOKEN",
			Title:       "Telegram Bot Token (leave empty to skip Telegram)",
			Placeholder: "123456789:ABCDEF...",
			Secret:      true,
		}),
		NewFinalizationStep(),
		NewSaveEnvStep(runtimePath),
	}
}

type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

type modelsMsg []list.Item
type errMsg error
type nextMsg struct{}

// model is the main Bubble Tea model that orchestrates the steps
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	err         error
	width       int
	height      int
}

func initialModel(runtimePath string) model {
	return model{
		steps:       getSteps(runtimePath),
		currentStep: 0,
		state:       NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 && m.steps[0] != nil {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	nextStep, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)

	if nextStep == nil {
		// Step indicated completion, move to next
		m.currentStep++
		if m.currentStep >= len(m.steps) {
			// All steps completed
			return m, tea.Quit
		}
		// Initialize the next step and kick it once so skippable steps
		// can decide without waiting for a key press
		return m, tea.Batch(m.steps[m.currentStep].Init(), func() tea.Msg { return nextMsg{} })
	}

	// If the step returned a different step (e.g., for branching), update current
	if nextStep != m.steps[m.currentStep] {
		m.steps[m.currentStep] = nextStep
	}

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Setup cancelled.\n"
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	}

	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	return titleStyle.Render("Setting up MeMyBot 🤖") + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard starts the TUI and writes the result to runtimePath/.env.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(runtimePath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalModel := m.(model)
	if finalModel.quitting {
		return nil, fmt.Errorf("memybot setup interrupted")
	}

	return finalModel.state, nil
}
