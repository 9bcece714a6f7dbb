package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/service/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatter struct {
	reply      string
	err        error
	gotHistory []core.Message
	gotSession string
}

func (f *fakeChatter) Chat(ctx context.Context, message string, history []core.Message) (string, error) {
	f.gotHistory = history
	f.gotSession = core.SessionIDFromCtx(ctx)
	return f.reply, f.err
}

func newTestModel(chatter core.Chatter) (model, *MemoryHistory) {
	history := NewMemoryHistory()
	router := command.NewRouter(command.Deps{PersonaName: "Ada", Reset: history})
	ctx := core.WithSessionID(context.Background(), defaultSessionID)
	return newModel(ctx, NewChat(chatter, router, history, "Ada")), history
}

func send(t *testing.T, m model, text string) (model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func TestModel_ChatRoundTrip(t *testing.T) {
	chatter := &fakeChatter{reply: "I build compilers."}
	m, history := newTestModel(chatter)

	m, cmd := send(t, m, "What do you do?")
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)

	msg := cmd()
	next, _ := m.Update(msg)
	m = next.(model)

	assert.False(t, m.waiting)
	assert.Equal(t, defaultSessionID, chatter.gotSession)
	assert.Empty(t, chatter.gotHistory)
	assert.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "What do you do?"},
		{Role: core.RoleAssistant, Content: "I build compilers."},
	}, history.Messages())
	assert.Contains(t, strings.Join(m.transcript, "\n"), "I build compilers.")

	// the second turn sees the first
	_, cmd = send(t, m, "Which ones?")
	require.NotNil(t, cmd)
	cmd()
	assert.Len(t, chatter.gotHistory, 2)
}

func TestModel_Error(t *testing.T) {
	m, history := newTestModel(&fakeChatter{err: errors.New("ai chat error: 500")})

	m, cmd := send(t, m, "hi")
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(model)

	assert.Empty(t, history.Messages())
	assert.Contains(t, strings.Join(m.transcript, "\n"), "ai chat error: 500")
}

func TestModel_Commands(t *testing.T) {
	m, history := newTestModel(&fakeChatter{})
	history.Append(core.Message{Role: core.RoleUser, Content: "old"})

	m, cmd := send(t, m, "/reset")
	assert.Nil(t, cmd)
	assert.False(t, m.waiting)
	assert.Empty(t, history.Messages())
	assert.Contains(t, strings.Join(m.transcript, "\n"), "Conversation cleared")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(&fakeChatter{})

	_, cmd := send(t, m, "exit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
