// internal/models/email.go
package models

import "time"

// GeneratedEmail is a drafted outreach email. Recipient and Service are full
// snapshots taken at creation time, so deleting or editing the source prospect
// or service never alters the historical record.
type GeneratedEmail struct {
	ID        string    `json:"id"`
	Recipient Prospect  `json:"recipient"`
	Service   Service   `json:"service"`
	Body      string    `json:"body"` // serialized {"subject":...,"body":...}
	CreatedAt time.Time `json:"createdAt"`
}

// LoggedCall records a phone follow-up against a prospect. Same creation and
// newest-first ordering contract as GeneratedEmail.
type LoggedCall struct {
	ID        string    `json:"id"`
	Prospect  Prospect  `json:"prospect"`
	Notes     string    `json:"notes"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"createdAt"`
}
