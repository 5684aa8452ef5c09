package format

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// BuildDraftRaw assembles a text/plain MIME message and returns it
// base64url-encoded, the form the Gmail drafts endpoint expects in the
// raw field.
func BuildDraftRaw(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
