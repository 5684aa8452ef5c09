package tool

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/format"
)

// CreateDraftRequest carries the draft's recipient, subject and body.
type CreateDraftRequest struct {
	To      string `json:"to" jsonschema:"the email address of the recipient"`
	Subject string `json:"subject" jsonschema:"the subject line"`
	Body    string `json:"body" jsonschema:"the plain-text body content"`
}

type createDraftSvc interface {
	CreateDraft(ctx context.Context, raw string) (*gmail.Draft, error)
}

// NewCreateDraft creates the gmail_create_draft tool.
func NewCreateDraft(svc createDraftSvc, notifier Notifier) *CreateDraft {
	return &CreateDraft{
		svc:      svc,
		notifier: notifier,
	}
}

// CreateDraft saves an unsent draft message in the user's account.
type CreateDraft struct {
	svc      createDraftSvc
	notifier Notifier
}

// CreateDraft builds the MIME message, submits it as a draft and returns
// a plain confirmation string. The draft stays unsent.
func (t *CreateDraft) CreateDraft(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateDraftRequest,
) (*mcp.CallToolResult, any, error) {
	t.notifier.Notify(ctx, req, "Creating email draft...", false)

	raw := format.BuildDraftRaw(input.To, input.Subject, input.Body)

	out := "Draft message created!"
	if _, err := t.svc.CreateDraft(ctx, raw); err != nil {
		if errors.Is(err, auth.ErrCredentials) {
			return nil, nil, err
		}
		out = fmt.Sprintf("An error occurred: %v", err)
	}
	log.Println(out)

	t.notifier.Notify(ctx, req, "Email draft created!", true)

	return textResult(out), nil, nil
}
