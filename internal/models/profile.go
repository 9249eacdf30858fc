// internal/models/profile.go
package models

import "strings"

// Profile is the sender identity used when drafting outreach emails.
// Exactly one instance exists; saving replaces it wholesale.
type Profile struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	WebsiteURL   string `json:"websiteUrl"`
}

// IsComplete reports whether the profile can be used for outreach.
func (p Profile) IsComplete() bool {
	return strings.TrimSpace(p.Name) != ""
}
