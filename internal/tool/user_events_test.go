package tool_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/tool"
)

func newUserEventsCalendarSvc() *calendarSvcMock {
	return &calendarSvcMock{
		ListCalendarsFunc: func(context.Context) (*calendar.CalendarList, error) {
			return &calendar.CalendarList{
				Items: []*calendar.CalendarListEntry{
					{Id: "cal-a"},
					{Id: "cal-b"},
				},
			}, nil
		},
		ListEventsFunc: func(_ context.Context, calendarID string, _ int64, _ string) (*calendar.Events, error) {
			switch calendarID {
			case "cal-a":
				return &calendar.Events{
					Items: []*calendar.Event{
						{
							Summary:   "Standup",
							Start:     &calendar.EventDateTime{DateTime: "2025-06-04T10:00:00Z"},
							Organizer: &calendar.EventOrganizer{DisplayName: "Work", Email: "work@example.com"},
						},
						{
							Summary:   "Review",
							Start:     &calendar.EventDateTime{DateTime: "2025-06-04T12:00:00Z"},
							Organizer: &calendar.EventOrganizer{DisplayName: "Work", Email: "work@example.com"},
						},
					},
				}, nil
			case "cal-b":
				return &calendar.Events{
					Items: []*calendar.Event{
						{
							Summary:   "Dentist",
							Start:     &calendar.EventDateTime{DateTime: "2025-06-04T11:00:00Z"},
							Organizer: &calendar.EventOrganizer{Email: "personal@example.com"},
						},
					},
				}, nil
			default:
				return nil, fmt.Errorf("unknown calendar %s", calendarID)
			}
		},
	}
}

func TestGetUserEventsMergesAndSortsAcrossCalendars(t *testing.T) {
	session := newTestSession(t, &gmailSvcMock{}, newUserEventsCalendarSvc())
	defer session.Close()

	result, err := session.client.CallTool(session.ctx, &mcp.CallToolParams{
		Name:      "get_user_events",
		Arguments: tool.UserEventsRequest{Count: 3},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "The requested 3 upcoming events from the user's calendar.")

	expected := `<events>
<event>
    <start>2025-06-04T10:00:00Z</start>
    <summary>Standup</summary>
    <calendar>Work</calendar>
</event>

<event>
    <start>2025-06-04T11:00:00Z</start>
    <summary>Dentist</summary>
    <calendar>personal@example.com</calendar>
</event>

<event>
    <start>2025-06-04T12:00:00Z</start>
    <summary>Review</summary>
    <calendar>Work</calendar>
</event>
</events>`
	assert.Contains(t, text, expected)

	assert.Equal(t, []statusRecord{
		{description: "Fetching user calendar entries...", done: false},
		{description: "Fetched user calendar entries!", done: true},
	}, session.notifier.records)
}

func TestGetUserEventsCapsPerCalendar(t *testing.T) {
	var gotMax []int64
	svc := newUserEventsCalendarSvc()
	inner := svc.ListEventsFunc
	svc.ListEventsFunc = func(ctx context.Context, calendarID string, maxResults int64, timeMin string) (*calendar.Events, error) {
		gotMax = append(gotMax, maxResults)
		return inner(ctx, calendarID, maxResults, timeMin)
	}

	session := newTestSession(t, &gmailSvcMock{}, svc)
	defer session.Close()

	result, err := session.client.CallTool(session.ctx, &mcp.CallToolParams{
		Name:      "get_user_events",
		Arguments: tool.UserEventsRequest{Count: 2},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	// each calendar is fetched with the requested total as its own cap
	assert.Equal(t, []int64{2, 2}, gotMax)
}

func TestGetUserEventsTooFewEventsIsAnError(t *testing.T) {
	session := newTestSession(t, &gmailSvcMock{}, newUserEventsCalendarSvc())
	defer session.Close()

	result, err := session.client.CallTool(session.ctx, &mcp.CallToolParams{
		Name:      "get_user_events",
		Arguments: tool.UserEventsRequest{Count: 5},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)

	assert.Contains(t, resultText(t, result), "requested 5 events but only 3 are available")
}

func TestGetUserEventsAPIErrorRenderedAsText(t *testing.T) {
	svc := newUserEventsCalendarSvc()
	svc.ListCalendarsFunc = func(context.Context) (*calendar.CalendarList, error) {
		return nil, errors.New("backendError")
	}

	session := newTestSession(t, &gmailSvcMock{}, svc)
	defer session.Close()

	result, err := session.client.CallTool(session.ctx, &mcp.CallToolParams{
		Name:      "get_user_events",
		Arguments: tool.UserEventsRequest{Count: 3},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Error fetching calendar data:")
	assert.Contains(t, text, "backendError")
}

func TestGetUserEventsCredentialErrorSurfaces(t *testing.T) {
	svc := newUserEventsCalendarSvc()
	svc.ListCalendarsFunc = func(context.Context) (*calendar.CalendarList, error) {
		return nil, fmt.Errorf("newSvc failed: %w", auth.ErrCredentials)
	}

	session := newTestSession(t, &gmailSvcMock{}, svc)
	defer session.Close()

	result, err := session.client.CallTool(session.ctx, &mcp.CallToolParams{
		Name:      "get_user_events",
		Arguments: tool.UserEventsRequest{Count: 3},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)

	assert.Contains(t, resultText(t, result), "credentials unavailable")
}
