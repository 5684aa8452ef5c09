// Package gservice wraps the Google API clients behind per-call service
// construction with freshly acquired credentials.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

type credentials interface {
	Credentials(ctx context.Context, retry bool) (*oauth2.Token, error)
}

// NewGmail creates a Gmail accessor over the given OAuth2 config and
// credential manager.
func NewGmail(cfg *oauth2.Config, creds credentials) *GMail {
	return &GMail{
		cfg:   cfg,
		creds: creds,
	}
}

// GMail lists, fetches and drafts Gmail messages for the authenticated user.
type GMail struct {
	cfg   *oauth2.Config
	creds credentials
}

// ListMessages lists up to maxResults message IDs carrying the given
// label, excluding spam and trash.
func (m *GMail) ListMessages(ctx context.Context, labelID string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	call := svc.Users.Messages.List(gmailUserID).
		LabelIds(labelID).
		IncludeSpamTrash(false).
		MaxResults(maxResults)

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result, nil
}

// GetMessage fetches one message in full format.
func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, msgID).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// CreateDraft submits a base64url-encoded raw MIME message as a draft.
// The draft is saved, not sent.
func (m *GMail) CreateDraft(ctx context.Context, raw string) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}

	created, err := svc.Users.Drafts.Create(gmailUserID, draft).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Create failed: %w", err)
	}

	return created, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.creds.Credentials(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("creds.Credentials failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
