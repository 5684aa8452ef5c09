package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/format"
)

// EmailContentRequest identifies the message to read.
type EmailContentRequest struct {
	MessageID string `json:"message_id" jsonschema:"the unique message ID of the email to fetch (e.g. 194d1f624c165d4b)"`
}

type emailContentSvc interface {
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
}

// NewEmailContent creates the get_email_content tool.
func NewEmailContent(svc emailContentSvc, notifier Notifier) *EmailContent {
	return &EmailContent{
		svc:      svc,
		notifier: notifier,
	}
}

// EmailContent returns the decoded body of a single message, no headers.
type EmailContent struct {
	svc      emailContentSvc
	notifier Notifier
}

// GetEmailContent fetches one message and renders its body inside a CDATA
// section of the interpreter_output template.
func (t *EmailContent) GetEmailContent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmailContentRequest,
) (*mcp.CallToolResult, any, error) {
	t.notifier.Notify(ctx, req, "Fetching email content...", false)

	description := fmt.Sprintf(
		"Contents of the email message for message_id: %s. Today is %s",
		input.MessageID, currentTime(),
	)

	var body string
	msg, err := t.svc.GetMessage(ctx, input.MessageID)
	if err != nil {
		if errors.Is(err, auth.ErrCredentials) {
			return nil, nil, err
		}
		body = fmt.Sprintf("An error occurred: %v", err)
	} else {
		body = format.ExtractBody(msg.Payload)
	}

	t.notifier.Notify(ctx, req, "Fetched email content!", true)

	return textResult(format.Envelope(description, format.CDATA(body))), nil, nil
}
