package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandevgo/memybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMessagesRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMessagesRepo(newTestDB(t))

	exchange := []core.Message{
		{Role: core.RoleUser, Content: "hi"},
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: core.FunctionCall{Name: "record_unknown_question", Arguments: `{"question":"q"}`},
		}}},
		{Role: core.RoleTool, ToolCallID: "call_1", Content: `{"recorded":"ok"}`},
		{Role: core.RoleAssistant, Content: "noted"},
	}
	require.NoError(t, repo.AddMessages(ctx, "s1", exchange...))
	require.NoError(t, repo.AddMessages(ctx, "s2", core.Message{Role: core.RoleUser, Content: "other"}))
	require.NoError(t, repo.AddMessages(ctx, "s1"))

	t.Run("full history in order", func(t *testing.T) {
		got, err := repo.GetMessages(ctx, "s1", 10)
		require.NoError(t, err)
		assert.Equal(t, exchange, got)
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		got, err := repo.GetMessages(ctx, "s1", 2)
		require.NoError(t, err)
		assert.Equal(t, exchange[2:], got)
	})

	t.Run("clear only touches one session", func(t *testing.T) {
		require.NoError(t, repo.ClearSession(ctx, "s1"))

		got, err := repo.GetMessages(ctx, "s1", 10)
		require.NoError(t, err)
		assert.Empty(t, got)

		other, err := repo.GetMessages(ctx, "s2", 10)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}

func TestRecordsRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordsRepo(newTestDB(t))

	require.NoError(t, repo.SaveLead(ctx, core.Lead{Email: "a@b.c", Name: "Name not provided", Notes: "not provided"}))
	require.NoError(t, repo.SaveLead(ctx, core.Lead{SessionID: "web-1", Email: "x@y.z", Name: "X", Notes: "hiring"}))
	require.NoError(t, repo.SaveUnknownQuestion(ctx, core.UnknownQuestion{Question: "favourite colour?"}))

	leads, err := repo.ListLeads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "x@y.z", leads[0].Email)
	assert.Equal(t, "web-1", leads[0].SessionID)
	assert.Equal(t, "", leads[1].SessionID)
	assert.False(t, leads[0].CreatedAt.IsZero())

	questions, err := repo.ListUnknownQuestions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "favourite colour?", questions[0].Question)
}

func TestNewDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "re.db")
	ctx := context.Background()

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewMessagesRepo(db).AddMessages(ctx, "s", core.Message{Role: core.RoleUser, Content: "kept"}))
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewMessagesRepo(db).GetMessages(ctx, "s", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Content)
}
