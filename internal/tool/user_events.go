package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/calendar/v3"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/format"
)

// UserEventsRequest selects how many upcoming events to return.
type UserEventsRequest struct {
	Count int64 `json:"count,omitempty" jsonschema:"number of upcoming events to fetch, -1 or 0 for the configured default"`
}

type userEventsSvc interface {
	ListCalendars(ctx context.Context) (*calendar.CalendarList, error)
	ListEvents(ctx context.Context, calendarID string, maxResults int64, timeMin string) (*calendar.Events, error)
}

// NewUserEvents creates the get_user_events tool.
func NewUserEvents(svc userEventsSvc, notifier Notifier, cfg Config) *UserEvents {
	return &UserEvents{
		svc:      svc,
		notifier: notifier,
		cfg:      cfg,
	}
}

// UserEvents merges upcoming events across every calendar the user can see.
type UserEvents struct {
	svc      userEventsSvc
	notifier Notifier
	cfg      Config
}

// GetUserEvents fetches up to count events per calendar, merges and sorts
// them by start time and returns the first count. Fetching is capped per
// calendar before the merge, so a busy calendar can crowd out entries
// beyond the cap even when the merged result would have room. Requesting
// more events than exist across all calendars combined is an error, not a
// truncated list.
func (t *UserEvents) GetUserEvents(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UserEventsRequest,
) (*mcp.CallToolResult, any, error) {
	t.notifier.Notify(ctx, req, "Fetching user calendar entries...", false)

	count := input.Count
	if count <= 0 {
		count = t.cfg.DefaultCalendarEntries
	}

	now := currentTime()
	description := fmt.Sprintf(
		"The requested %d upcoming events from the user's calendar. Today is %s",
		count, now,
	)

	var inner string
	merged, err := t.upcomingEvents(ctx, count, now)
	switch {
	case errors.Is(err, auth.ErrCredentials):
		return nil, nil, err
	case err != nil:
		inner = fmt.Sprintf("Error fetching calendar data: %v", err)
	case int64(len(merged)) < count:
		return nil, nil, fmt.Errorf("requested %d events but only %d are available", count, len(merged))
	default:
		inner = format.EventRecords(merged[:count])
	}

	t.notifier.Notify(ctx, req, "Fetched user calendar entries!", true)

	return textResult(format.Envelope(description, format.Events(inner))), nil, nil
}

func (t *UserEvents) upcomingEvents(ctx context.Context, count int64, timeMin string) ([]format.Event, error) {
	list, err := t.svc.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("svc.ListCalendars failed: %w", err)
	}

	var merged []format.Event
	for _, cal := range list.Items {
		events, err := t.svc.ListEvents(ctx, cal.Id, count, timeMin)
		if err != nil {
			return nil, fmt.Errorf("list events for %s failed: %w", cal.Id, err)
		}

		for _, ev := range events.Items {
			merged = append(merged, toEvent(ev))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})

	return merged, nil
}

func toEvent(ev *calendar.Event) format.Event {
	out := format.Event{
		Summary: ev.Summary,
	}

	if ev.Start != nil {
		if ev.Start.DateTime != "" {
			out.Start = ev.Start.DateTime
		} else {
			out.Start = ev.Start.Date
		}
	}

	if ev.Organizer != nil {
		if ev.Organizer.DisplayName != "" {
			out.Calendar = ev.Organizer.DisplayName
		} else {
			out.Calendar = ev.Organizer.Email
		}
	}

	return out
}
