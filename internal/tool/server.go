// Package tool exposes the Gmail and Calendar operations as MCP tools,
// rendering results into the fixed interpreter_output text template.
package tool

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config holds the per-instance tool defaults.
type Config struct {
	DefaultEmailEntries    int64
	DefaultCalendarEntries int64
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		DefaultEmailEntries:    10,
		DefaultCalendarEntries: 10,
	}
}

type gmailSvc interface {
	userEmailsSvc
	createDraftSvc
}

// NewServer creates an MCP server with the Gmail and Calendar tools.
func NewServer(gmail gmailSvc, cal userEventsSvc, notifier Notifier, cfg Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "google-tools", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_emails",
		Description: "Retrieve the latest emails from the user's Gmail inbox, filtered by label",
	}, NewUserEmails(gmail, notifier, cfg).GetUserEmails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_email_content",
		Description: "Retrieve the full body content of one email by message ID",
	}, NewEmailContent(gmail, notifier).GetEmailContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "gmail_create_draft",
		Description: "Create a draft message in the user's Gmail account; the draft is not sent",
	}, NewCreateDraft(gmail, notifier).CreateDraft)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_events",
		Description: "Retrieve upcoming events merged across all of the user's calendars",
	}, NewUserEvents(cal, notifier, cfg).GetUserEvents)

	return server
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func currentTime() string {
	return time.Now().UTC().Format(time.RFC3339)
}
