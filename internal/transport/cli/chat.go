package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/service/command"
	"github.com/sandevgo/memybot/internal/service/ui"
	"github.com/sandevgo/memybot/pkg/log"
)

const defaultSessionID = "cli-local"

const inputWidth = 80

// Chat is a terminal chat with the persona.
type Chat struct {
	chatter core.Chatter
	router  *command.Router
	history *MemoryHistory
	name    string
}

func NewChat(chatter core.Chatter, router *command.Router, history *MemoryHistory, personaName string) *Chat {
	return &Chat{
		chatter: chatter,
		router:  router,
		history: history,
		name:    personaName,
	}
}

func (c *Chat) Start(ctx context.Context) error {
	ctx = core.WithSessionID(ctx, defaultSessionID)

	p := tea.NewProgram(newModel(ctx, c), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal chat failed: %w", err)
	}
	return nil
}

func (c *Chat) Shutdown(ctx context.Context) error {
	return nil
}

type replyMsg struct {
	user  string
	reply string
	err   error
}

type model struct {
	ctx        context.Context
	chat       *Chat
	viewport   viewport.Model
	textarea   textarea.Model
	transcript []string
	waiting    bool
}

func newModel(ctx context.Context, c *Chat) model {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything... (/help for commands, esc to quit)"
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(inputWidth)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(inputWidth, 20)

	m := model{
		ctx:      ctx,
		chat:     c,
		viewport: vp,
		textarea: ta,
	}
	m.appendLine(ui.BotStyle.Render(c.name+":") + " Hi! Ask me about my career, skills and experience.")
	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.textarea.Height()-2, 1)
		m.textarea.SetWidth(msg.Width)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if text == "" {
				return m, nil
			}
			if text == "exit" {
				return m, tea.Quit
			}
			return m, m.submit(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			log.FromCtx(m.ctx).Error().Err(msg.err).Msg("chat failed")
			m.appendLine(ui.ErrorStyle.Render("error: " + msg.err.Error()))
			if msg.reply == "" {
				return m, nil
			}
		}
		m.chat.history.Append(
			core.Message{Role: core.RoleUser, Content: msg.user},
			core.Message{Role: core.RoleAssistant, Content: msg.reply},
		)
		m.appendLine(ui.BotStyle.Render(m.chat.name+":") + " " + msg.reply)
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit echoes the user's line and either runs a slash command or asks the model.
func (m *model) submit(text string) tea.Cmd {
	m.appendLine(ui.UserStyle.Render("You:") + " " + text)

	if m.chat.router != nil {
		if out, ok := m.chat.router.Execute(m.ctx, defaultSessionID, text); ok {
			m.appendLine(out)
			return nil
		}
	}

	m.waiting = true
	m.appendLine(ui.DescStyle.Render("..."))

	ctx, chatter, history := m.ctx, m.chat.chatter, m.chat.history.Messages()
	return func() tea.Msg {
		reply, err := chatter.Chat(ctx, text, history)
		return replyMsg{user: text, reply: reply, err: err}
	}
}

func (m *model) appendLine(line string) {
	// drop the pending marker once something replaces it
	if n := len(m.transcript); n > 0 && m.transcript[n-1] == ui.DescStyle.Render("...") {
		m.transcript = m.transcript[:n-1]
	}
	m.transcript = append(m.transcript, line)
	m.refresh()
}

func (m *model) refresh() {
	wrap := lipgloss.NewStyle().Width(max(m.viewport.Width, 20))
	m.viewport.SetContent(wrap.Render(strings.Join(m.transcript, "\n\n")))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s", m.viewport.View(), m.textarea.View())
}
