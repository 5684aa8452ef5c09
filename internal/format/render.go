// Package format renders tool results into the fixed XML-like text
// template consumed by the language model, extracts message bodies and
// builds draft MIME payloads. Tag names and nesting are part of the
// downstream contract and must stay byte-stable.
package format

import (
	"fmt"
	"strings"
)

const envelopeTemplate = `
<interpreter_output>
    <description>
        %s
    </description>
    <output>
        %s
    </output>
</interpreter_output>
`

const emailTemplate = `
<email>
    <message_id>%s</message_id>
    <date>%s</date>
    <from>%s</from>
    <subject>%s</subject>
    <snippet>%s</snippet>
    <unread>%t</unread>
    <email_body>%s</email_body>
</email>
`

const eventTemplate = `
<event>
    <start>%s</start>
    <summary>%s</summary>
    <calendar>%s</calendar>
</event>
`

// NoMessages is the sentinel rendered when a listing comes back empty.
const NoMessages = "No messages found."

// Email is one listed message, constructed per request and never persisted.
type Email struct {
	MessageID string
	Date      string
	From      string
	Subject   string
	Snippet   string
	Unread    bool
	Body      string
}

// Event is one calendar entry. Start is either an RFC3339 date-time or an
// all-day date; both sort consistently as strings.
type Event struct {
	Start    string
	Summary  string
	Calendar string
}

// Envelope wraps a description and an output block into the outer
// interpreter_output template.
func Envelope(description, output string) string {
	return fmt.Sprintf(envelopeTemplate, description, output)
}

// Emails renders the inner content of an email listing wrapped in the
// emails tag. Inner is either concatenated email records, the NoMessages
// sentinel or an error text.
func Emails(inner string) string {
	return fmt.Sprintf("<emails>%s</emails>", inner)
}

// Events renders the inner content of an event listing wrapped in the
// events tag.
func Events(inner string) string {
	return fmt.Sprintf("<events>%s</events>", inner)
}

// CDATA wraps raw text in a CDATA section.
func CDATA(inner string) string {
	return fmt.Sprintf("<![CDATA[%s]]>", inner)
}

// EmailRecords renders the given emails as concatenated email records.
func EmailRecords(emails []Email) string {
	var b strings.Builder
	for _, e := range emails {
		fmt.Fprintf(&b, emailTemplate, e.MessageID, e.Date, e.From, e.Subject, e.Snippet, e.Unread, e.Body)
	}
	return b.String()
}

// EventRecords renders the given events as concatenated event records.
func EventRecords(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, eventTemplate, e.Start, e.Summary, e.Calendar)
	}
	return b.String()
}
