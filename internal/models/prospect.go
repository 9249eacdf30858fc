// internal/models/prospect.go
package models

import "time"

// Contact is the decision-maker reached at a prospect company.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
}

// Prospect is a candidate client company surfaced by a prospecting search.
// Identity is the ID; merging batches is last-write-wins per ID.
type Prospect struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"companyName"`
	WebsiteURL      string    `json:"websiteUrl"`
	Contact         Contact   `json:"contact"`
	NeedsAnalysis   string    `json:"needsAnalysis"`
	HireProbability int       `json:"hireProbability"`
	Sector          string    `json:"sector"`
	Location        string    `json:"location"`
	DateAdded       time.Time `json:"dateAdded"`
}

// ClampProbability forces HireProbability into [0,100]. Out-of-range values
// are a data-quality defect from the model and must not propagate.
func (p *Prospect) ClampProbability() {
	if p.HireProbability < 0 {
		p.HireProbability = 0
	}
	if p.HireProbability > 100 {
		p.HireProbability = 100
	}
}
