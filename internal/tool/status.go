package tool

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type statusEvent struct {
	Type string     `json:"type"`
	Data statusData `json:"data"`
}

type statusData struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Notifier delivers the two-phase status notification emitted before and
// after each tool operation. Delivery is fire-and-forget: the caller
// never inspects the outcome.
type Notifier interface {
	Notify(ctx context.Context, req *mcp.CallToolRequest, description string, done bool)
}

// SessionNotifier sends status notifications to the host as MCP logging
// messages on the request's session.
type SessionNotifier struct{}

// Notify implements Notifier.
func (SessionNotifier) Notify(ctx context.Context, req *mcp.CallToolRequest, description string, done bool) {
	if req == nil || req.Session == nil {
		return
	}

	err := req.Session.Log(ctx, &mcp.LoggingMessageParams{
		Level:  "info",
		Logger: "status",
		Data: statusEvent{
			Type: "status",
			Data: statusData{Description: description, Done: done},
		},
	})
	if err != nil {
		log.Println("status notification failed:", err)
	}
}

// DiscardNotifier drops all status notifications.
type DiscardNotifier struct{}

// Notify implements Notifier.
func (DiscardNotifier) Notify(context.Context, *mcp.CallToolRequest, string, bool) {}
