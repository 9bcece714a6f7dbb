package mcpserver

import (
	"context"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/service/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type fakeRecords struct {
	core.RecordsRepository
	questions []core.UnknownQuestion
}

func (f *fakeRecords) SaveUnknownQuestion(_ context.Context, q core.UnknownQuestion) error {
	f.questions = append(f.questions, q)
	return nil
}

func newClient(t *testing.T) (*client.Client, *fakeNotifier, *fakeRecords) {
	t.Helper()
	n := &fakeNotifier{}
	records := &fakeRecords{}
	reg := tools.NewRegistry()
	require.NoError(t, tools.NewRecorder(n, records, nil).Register(reg))

	cli, err := client.NewInProcessClient(New(reg).MCP())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	require.NoError(t, cli.Start(ctx))

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{Name: "test", Version: "0"}
	_, err = cli.Initialize(ctx, req)
	require.NoError(t, err)

	return cli, n, records
}

func textOf(res *mcpproto.CallToolResult) string {
	var out string
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			out += text.Text
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			out += textPtr.Text
		}
	}
	return out
}

func TestServer_ListTools(t *testing.T) {
	cli, _, _ := newClient(t)

	resp, err := cli.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(resp.Tools))
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{tools.RecordUserDetailsName, tools.RecordUnknownQuestionName}, names)
}

func TestServer_CallTool(t *testing.T) {
	cli, n, records := newClient(t)
	ctx := context.Background()

	req := mcpproto.CallToolRequest{}
	req.Params.Name = tools.RecordUnknownQuestionName
	req.Params.Arguments = map[string]any{"question": "What is 2+2?"}

	res, err := cli.CallTool(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"recorded":"ok"}`, textOf(res))
	assert.Equal(t, []string{"Recording What is 2+2?"}, n.sent)
	require.Len(t, records.questions, 1)
	assert.Equal(t, sessionID, records.questions[0].SessionID)

	bad := mcpproto.CallToolRequest{}
	bad.Params.Name = tools.RecordUserDetailsName
	bad.Params.Arguments = map[string]any{"name": "no email"}

	res, err = cli.CallTool(ctx, bad)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), "invalid arguments")
}
