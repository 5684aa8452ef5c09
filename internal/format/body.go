package format

import (
	"encoding/base64"
	"fmt"
	"html"

	"google.golang.org/api/gmail/v1"
)

// ExtractBody returns the decoded, HTML-escaped body of a message
// payload. For multipart/alternative and multipart/mixed payloads the
// immediate child parts are scanned in order and the first text/html or
// text/plain part wins; otherwise the top-level body is used. This path
// never fails: decoding problems are rendered as a descriptive error
// string so a broken message cannot take down the whole listing.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return "Error parsing email body: missing payload"
	}

	if payload.MimeType == "multipart/alternative" || payload.MimeType == "multipart/mixed" {
		for _, part := range payload.Parts {
			if part.MimeType == "text/html" || part.MimeType == "text/plain" {
				return decodeBody(part.Body)
			}
		}
	}

	return decodeBody(payload.Body)
}

func decodeBody(body *gmail.MessagePartBody) string {
	if body == nil || body.Data == "" {
		return "Error parsing email body: missing body data"
	}

	decoded, err := base64.URLEncoding.DecodeString(body.Data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(body.Data)
		if err != nil {
			return fmt.Sprintf("Error decoding email body: %v", err)
		}
	}

	return html.EscapeString(string(decoded))
}
