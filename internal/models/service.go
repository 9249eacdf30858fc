// internal/models/service.go
package models

// Service is a user-defined catalog entry describing an offering that
// prospects can be searched and pitched for. The ID is assigned at creation
// and immutable thereafter.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
