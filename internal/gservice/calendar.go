package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewCalendar creates a Calendar accessor over the given OAuth2 config
// and credential manager.
func NewCalendar(cfg *oauth2.Config, creds credentials) *Calendar {
	return &Calendar{
		cfg:   cfg,
		creds: creds,
	}
}

// Calendar enumerates the user's calendars and their events.
type Calendar struct {
	cfg   *oauth2.Config
	creds credentials
}

// ListCalendars returns the user's calendar list. A single page is
// assumed, matching typical account sizes.
func (c *Calendar) ListCalendars(ctx context.Context) (*calendar.CalendarList, error) {
	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	list, err := svc.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("calendarList.List failed: %w", err)
	}

	return list, nil
}

// ListEvents lists up to maxResults future events of one calendar,
// recurring events expanded, ordered by start time.
func (c *Calendar) ListEvents(ctx context.Context, calendarID string, maxResults int64, timeMin string) (*calendar.Events, error) {
	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	call := svc.Events.List(calendarID).
		TimeMin(timeMin).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime")

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("events.List failed: %w", err)
	}

	return events, nil
}

func (c *Calendar) newSvc(ctx context.Context) (*calendar.Service, error) {
	t, err := c.creds.Credentials(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("creds.Credentials failed: %w", err)
	}

	clt := c.cfg.Client(ctx, t)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService failed: %w", err)
	}

	return svc, nil
}
