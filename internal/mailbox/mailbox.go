// internal/mailbox/mailbox.go

// Package mailbox holds the connected-mailbox collaborators. A DraftCreator
// receives a finished outreach email and places it in the user's mailbox;
// how it gets there (Gmail draft, SES send, SMTP send) is backend-specific.
package mailbox

import "context"

type Message struct {
	To      string
	Subject string
	Body    string // plain text; backends convert to HTML where required
}

type DraftCreator interface {
	CreateDraft(ctx context.Context, msg Message) error
}
