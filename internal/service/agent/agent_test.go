package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/internal/service/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPrompt string

func (s staticPrompt) SystemPrompt() string { return string(s) }

// scriptedAI replays completions in order and records what it was sent.
// Once the script runs out it repeats the last entry.
type scriptedAI struct {
	script []core.Completion
	err    error
	calls  [][]core.Message
}

func (s *scriptedAI) Chat(_ context.Context, history []core.Message, _ []core.Tool) (core.Completion, error) {
	s.calls = append(s.calls, append([]core.Message(nil), history...))
	if s.err != nil {
		return core.Completion{}, s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i], nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func toolCall(id, name, args string) core.ToolCall {
	return core.ToolCall{ID: id, Type: "function", Function: core.FunctionCall{Name: name, Arguments: args}}
}

func wantTools(content string, calls ...core.ToolCall) core.Completion {
	return core.Completion{
		Message:      core.Message{Role: core.RoleAssistant, Content: content, ToolCalls: calls},
		FinishReason: core.FinishToolCalls,
	}
}

func final(content string) core.Completion {
	return core.Completion{
		Message:      core.Message{Role: core.RoleAssistant, Content: content},
		FinishReason: core.FinishStop,
	}
}

func newTestAgent(t *testing.T, ai core.AIProvider, maxRounds int, m *observability.Metrics) (*Agent, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	reg := tools.NewRegistry()
	require.NoError(t, tools.NewRecorder(n, nil, m).Register(reg))
	return NewAgent(&config.AppConfig{MaxToolRounds: maxRounds}, ai, reg, staticPrompt("you are me"), m), n
}

// assertPaired checks that every assistant tool-call turn is directly
// followed by exactly one result per call.
func assertPaired(t *testing.T, msgs []core.Message) {
	t.Helper()
	for i, msg := range msgs {
		if msg.Role != core.RoleAssistant || len(msg.ToolCalls) == 0 {
			continue
		}
		require.GreaterOrEqual(t, len(msgs), i+1+len(msg.ToolCalls), "tool calls at %d lack results", i)
		for k, tc := range msg.ToolCalls {
			res := msgs[i+1+k]
			assert.Equal(t, core.RoleTool, res.Role)
			assert.Equal(t, tc.ID, res.ToolCallID)
		}
	}
}

func TestAgent_DirectAnswer(t *testing.T) {
	ai := &scriptedAI{script: []core.Completion{final("Hello, I am Me.")}}
	a, n := newTestAgent(t, ai, 10, nil)

	history := []core.Message{
		{Role: core.RoleUser, Content: "earlier"},
		{Role: core.RoleAssistant, Content: "sure"},
	}
	reply, err := a.Chat(context.Background(), "hi", history)
	require.NoError(t, err)
	assert.Equal(t, "Hello, I am Me.", reply)
	assert.Empty(t, n.sent)

	require.Len(t, ai.calls, 1)
	sent := ai.calls[0]
	require.Len(t, sent, 4)
	assert.Equal(t, core.Message{Role: core.RoleSystem, Content: "you are me"}, sent[0])
	assert.Equal(t, history, sent[1:3])
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "hi"}, sent[3])
}

func TestAgent_ToolRound(t *testing.T) {
	ai := &scriptedAI{script: []core.Completion{
		wantTools("", toolCall("call_1", tools.RecordUnknownQuestionName, `{"question":"What is 2+2?"}`)),
		final("I've noted that."),
	}}
	m := observability.NewMetrics("test")
	a, n := newTestAgent(t, ai, 10, m)

	ex, err := a.Converse(context.Background(), "What is 2+2?", nil)
	require.NoError(t, err)
	assert.Equal(t, "I've noted that.", ex.Reply)
	assert.Equal(t, 1, ex.Rounds)
	assert.Equal(t, []string{"Recording What is 2+2?"}, n.sent)

	require.Len(t, ai.calls, 2)
	for _, sent := range ai.calls {
		assertPaired(t, sent)
	}

	second := ai.calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, core.RoleAssistant, second[2].Role)
	assert.Equal(t, core.Message{Role: core.RoleTool, ToolCallID: "call_1", Content: `{"recorded":"ok"}`}, second[3])

	require.Len(t, ex.Turns, 4)
	assert.Equal(t, core.RoleUser, ex.Turns[0].Role)
	assert.Equal(t, "I've noted that.", ex.Turns[3].Content)
	assertPaired(t, ex.Turns)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues(tools.RecordUnknownQuestionName, observability.OutcomeOK)))
}

func TestAgent_ToolResultMapping(t *testing.T) {
	tests := []struct {
		name    string
		call    core.ToolCall
		want    string
		outcome string
	}{
		{
			name:    "unknown tool",
			call:    toolCall("c1", "launch_rockets", `{}`),
			want:    "{}",
			outcome: observability.OutcomeUnknown,
		},
		{
			name:    "missing required field",
			call:    toolCall("c1", tools.RecordUserDetailsName, `{"name":"Bob"}`),
			want:    `{"error":"invalid arguments: email is required"}`,
			outcome: observability.OutcomeInvalid,
		},
		{
			name:    "user details",
			call:    toolCall("c1", tools.RecordUserDetailsName, `{"email":"a@example.com"}`),
			want:    `{"recorded":"ok"}`,
			outcome: observability.OutcomeOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &scriptedAI{script: []core.Completion{wantTools("", tt.call), final("done")}}
			m := observability.NewMetrics("test")
			a, _ := newTestAgent(t, ai, 10, m)

			reply, err := a.Chat(context.Background(), "hi", nil)
			require.NoError(t, err)
			assert.Equal(t, "done", reply)

			require.Len(t, ai.calls, 2)
			result := ai.calls[1][len(ai.calls[1])-1]
			assert.Equal(t, "c1", result.ToolCallID)
			assert.Equal(t, tt.want, result.Content)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues(tt.call.Function.Name, tt.outcome)))
		})
	}
}

func TestAgent_MultipleCallsInOneRound(t *testing.T) {
	ai := &scriptedAI{script: []core.Completion{
		wantTools("let me note that",
			toolCall("a", tools.RecordUserDetailsName, `{"email":"a@example.com","name":"Ann"}`),
			toolCall("b", tools.RecordUnknownQuestionName, `{"question":"q?"}`),
		),
		final("thanks Ann"),
	}}
	a, n := newTestAgent(t, ai, 10, nil)

	ex, err := a.Converse(context.Background(), "I'm Ann, a@example.com. q?", nil)
	require.NoError(t, err)
	assert.Equal(t, "thanks Ann", ex.Reply)
	assert.Len(t, n.sent, 2)

	second := ai.calls[1]
	assertPaired(t, second)
	assert.Equal(t, "a", second[len(second)-2].ToolCallID)
	assert.Equal(t, "b", second[len(second)-1].ToolCallID)
}

func TestAgent_RoundLimit(t *testing.T) {
	loop := wantTools("thinking", toolCall("x", tools.RecordUnknownQuestionName, `{"question":"again"}`))

	t.Run("bounded", func(t *testing.T) {
		ai := &scriptedAI{script: []core.Completion{loop}}
		a, n := newTestAgent(t, ai, 3, nil)

		ex, err := a.Converse(context.Background(), "loop", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrToolRoundsExceeded)
		assert.True(t, IsRoundsExceeded(err))
		assert.Equal(t, "thinking", ex.Reply)
		assert.Equal(t, 3, ex.Rounds)
		assert.Len(t, ai.calls, 4)
		assert.Len(t, n.sent, 3)
		assertPaired(t, ex.Turns)
	})

	t.Run("zero means unbounded", func(t *testing.T) {
		script := make([]core.Completion, 0, 26)
		for i := 0; i < 25; i++ {
			script = append(script, loop)
		}
		script = append(script, final("finally"))

		ai := &scriptedAI{script: script}
		a, _ := newTestAgent(t, ai, 0, nil)

		ex, err := a.Converse(context.Background(), "loop", nil)
		require.NoError(t, err)
		assert.Equal(t, "finally", ex.Reply)
		assert.Equal(t, 25, ex.Rounds)
	})
}

func TestAgent_ProviderError(t *testing.T) {
	boom := errors.New("503 from upstream")
	ai := &scriptedAI{err: boom}
	a, _ := newTestAgent(t, ai, 10, nil)

	_, err := a.Chat(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "ai chat error: "))
}

func TestAgent_ToolsWithoutCalls(t *testing.T) {
	// some servers return finish_reason=tool_calls with an empty list
	ai := &scriptedAI{script: []core.Completion{{
		Message:      core.Message{Role: core.RoleAssistant, Content: "plain answer"},
		FinishReason: core.FinishToolCalls,
	}}}
	a, _ := newTestAgent(t, ai, 10, nil)

	reply, err := a.Chat(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain answer", reply)
	assert.Len(t, ai.calls, 1)
}

func TestExecutor_Truncate(t *testing.T) {
	e := NewExecutor(nil, nil)

	short := strings.Repeat("a", 2000)
	assert.Equal(t, short, e.truncate(short))

	long := strings.Repeat("h", 500) + strings.Repeat("m", 1000) + strings.Repeat("t", 1500)
	got := e.truncate(long)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("h", 500)+"\n\n... [TRUNCATED 1000 bytes] ..."))
	assert.True(t, strings.HasSuffix(got, strings.Repeat("t", 1500)))
}

type bigRegistry struct{}

func (bigRegistry) Definitions() []core.Tool { return nil }

func (bigRegistry) Call(_ context.Context, name string, _ json.RawMessage) (string, error) {
	if name == "explode" {
		return "", fmt.Errorf("tool crashed")
	}
	return strings.Repeat("x", 5000), nil
}

func TestExecutor_Execute(t *testing.T) {
	e := NewExecutor(bigRegistry{}, nil)

	res := e.Execute(context.Background(), []core.ToolCall{
		toolCall("1", "big", `{}`),
		toolCall("2", "explode", `{}`),
	})
	require.Len(t, res, 2)
	assert.Contains(t, res[0].Content, "[TRUNCATED 3000 bytes]")
	assert.Equal(t, "1", res[0].ToolCallID)
	assert.Equal(t, `{"error":"tool crashed"}`, res[1].Content)
	assert.Equal(t, "2", res[1].ToolCallID)
}
