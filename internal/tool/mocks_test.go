package tool_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/google-tools-mcp/internal/tool"
)

type gmailSvcMock struct {
	ListMessagesFunc func(ctx context.Context, labelID string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageFunc   func(ctx context.Context, msgID string) (*gmail.Message, error)
	CreateDraftFunc  func(ctx context.Context, raw string) (*gmail.Draft, error)
}

func (m *gmailSvcMock) ListMessages(ctx context.Context, labelID string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	return m.ListMessagesFunc(ctx, labelID, maxResults)
}

func (m *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	return m.GetMessageFunc(ctx, msgID)
}

func (m *gmailSvcMock) CreateDraft(ctx context.Context, raw string) (*gmail.Draft, error) {
	return m.CreateDraftFunc(ctx, raw)
}

type calendarSvcMock struct {
	ListCalendarsFunc func(ctx context.Context) (*calendar.CalendarList, error)
	ListEventsFunc    func(ctx context.Context, calendarID string, maxResults int64, timeMin string) (*calendar.Events, error)
}

func (m *calendarSvcMock) ListCalendars(ctx context.Context) (*calendar.CalendarList, error) {
	return m.ListCalendarsFunc(ctx)
}

func (m *calendarSvcMock) ListEvents(ctx context.Context, calendarID string, maxResults int64, timeMin string) (*calendar.Events, error) {
	return m.ListEventsFunc(ctx, calendarID, maxResults, timeMin)
}

type statusRecord struct {
	description string
	done        bool
}

type notifierMock struct {
	records []statusRecord
}

func (n *notifierMock) Notify(_ context.Context, _ *mcp.CallToolRequest, description string, done bool) {
	n.records = append(n.records, statusRecord{description: description, done: done})
}

type testSession struct {
	ctx      context.Context
	client   *mcp.ClientSession
	server   *mcp.ServerSession
	notifier *notifierMock
}

func (s *testSession) Close() {
	_ = s.client.Close()
	_ = s.server.Close()
}

func newTestSession(t *testing.T, gmailSvc *gmailSvcMock, calSvc *calendarSvcMock) *testSession {
	t.Helper()

	notifier := &notifierMock{}
	server := tool.NewServer(gmailSvc, calSvc, notifier, tool.DefaultConfig())

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	return &testSession{
		ctx:      ctx,
		client:   clientSession,
		server:   serverSession,
		notifier: notifier,
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")

	return text.Text
}
