// internal/prospecting/models.go
package prospecting

import "prospector/internal/models"

// Input is one search request. All three fields are required.
type Input struct {
	Service  models.Service
	Sector   string
	Location string
}

// record is the wire shape the model is instructed to emit per prospect;
// id and dateAdded are assigned on receipt. The probability arrives as a JSON
// number and may be fractional; it is rounded into the integer model field.
type record struct {
	CompanyName     string         `json:"companyName"`
	WebsiteURL      string         `json:"websiteUrl"`
	Contact         models.Contact `json:"contact"`
	NeedsAnalysis   string         `json:"needsAnalysis"`
	HireProbability float64        `json:"hireProbability"`
}
