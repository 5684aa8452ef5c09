package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/format"
)

// UserEmailsRequest selects how many messages to list and under which label.
type UserEmailsRequest struct {
	Count int64  `json:"count,omitempty" jsonschema:"number of emails to fetch, -1 or 0 for the configured default"`
	Label string `json:"label,omitempty" jsonschema:"Gmail label to filter by: INBOX (default), UNREAD, STARRED, IMPORTANT or SENT"`
}

var knownLabels = []string{"INBOX", "UNREAD", "STARRED", "IMPORTANT", "SENT"}

type userEmailsSvc interface {
	ListMessages(ctx context.Context, labelID string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
}

// NewUserEmails creates the get_user_emails tool.
func NewUserEmails(svc userEmailsSvc, notifier Notifier, cfg Config) *UserEmails {
	return &UserEmails{
		svc:      svc,
		notifier: notifier,
		cfg:      cfg,
	}
}

// UserEmails lists recent messages with headers, snippet, unread flag and
// decoded body.
type UserEmails struct {
	svc      userEmailsSvc
	notifier Notifier
	cfg      Config
}

// GetUserEmails fetches up to count messages carrying the given label and
// renders them into the interpreter_output template. Vendor API failures
// are rendered as error text inside the template; credential failures are
// returned as errors.
func (t *UserEmails) GetUserEmails(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UserEmailsRequest,
) (*mcp.CallToolResult, any, error) {
	t.notifier.Notify(ctx, req, "Fetching user emails...", false)

	count := input.Count
	if count <= 0 {
		count = t.cfg.DefaultEmailEntries
	}
	label := input.Label
	if label == "" {
		label = "INBOX"
	}

	description := fmt.Sprintf(
		"The requested %d emails from the user's inbox that have the label %s. Today is %s",
		count, label, currentTime(),
	)

	inner, err := t.listEmails(ctx, count, label)
	if err != nil {
		if errors.Is(err, auth.ErrCredentials) {
			return nil, nil, err
		}
		inner = fmt.Sprintf("An error occurred: %v", err)
	}

	t.notifier.Notify(ctx, req, "Fetched user emails!", true)

	return textResult(format.Envelope(description, format.Emails(inner))), nil, nil
}

func (t *UserEmails) listEmails(ctx context.Context, count int64, label string) (string, error) {
	if !slices.Contains(knownLabels, label) {
		return "", fmt.Errorf("unknown label %q", label)
	}

	result, err := t.svc.ListMessages(ctx, label, count)
	if err != nil {
		return "", fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	if len(result.Messages) == 0 {
		return format.NoMessages, nil
	}

	emails := make([]format.Email, 0, len(result.Messages))
	for _, m := range result.Messages {
		msg, err := t.svc.GetMessage(ctx, m.Id)
		if err != nil {
			return "", fmt.Errorf("get message %s failed: %w", m.Id, err)
		}

		emails = append(emails, toEmail(msg))
	}

	return format.EmailRecords(emails), nil
}

func toEmail(msg *gmail.Message) format.Email {
	return format.Email{
		MessageID: msg.Id,
		Date:      headerValue(msg.Payload, "Date"),
		From:      headerValue(msg.Payload, "From"),
		Subject:   headerValue(msg.Payload, "Subject"),
		Snippet:   msg.Snippet,
		Unread:    slices.Contains(msg.LabelIds, "UNREAD"),
		Body:      format.ExtractBody(msg.Payload),
	}
}

// headerValue matches the header name exactly, case-sensitive. A missing
// header yields the empty string.
func headerValue(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
